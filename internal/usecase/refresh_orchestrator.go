package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/platform/scheduler"
)

const defaultRefreshInterval = 10 * time.Minute

type RefreshConfig struct {
	Interval time.Duration
	// Seasons lists the seasons that may be made active.
	Seasons []int
}

// RefreshOrchestrator reruns the season pipeline on a fixed interval and
// hands each result to the live service.
type RefreshOrchestrator struct {
	sync   *SeasonSyncService
	live   *LiveService
	repo   season.Repository
	cfg    RefreshConfig
	logger *logging.Logger

	mu   sync.Mutex
	task *scheduler.Task
}

func NewRefreshOrchestrator(syncService *SeasonSyncService, liveService *LiveService, repo season.Repository, cfg RefreshConfig, logger *logging.Logger) *RefreshOrchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRefreshInterval
	}
	return &RefreshOrchestrator{
		sync:   syncService,
		live:   liveService,
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("refresh"),
	}
}

// Start runs the pipeline for the active season now and then every
// interval. It reports false when already started.
func (o *RefreshOrchestrator) Start(ctx context.Context) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.task != nil && o.task.Running() {
		return false
	}
	o.task = scheduler.NewTask("season_refresh", o.cfg.Interval, o.RunOnce, o.logger)
	if o.live != nil {
		task := o.task
		o.live.OnGameEnd(func() { task.Trigger() })
	}
	return o.task.Start(ctx)
}

// Stop tears down the refresh task and any live polling.
func (o *RefreshOrchestrator) Stop() {
	o.mu.Lock()
	task := o.task
	o.task = nil
	o.mu.Unlock()

	if task != nil {
		task.Stop()
	}
	if o.live != nil {
		o.live.Stop()
	}
}

// RunOnce syncs the active season. Live polling is reconciled only when the
// season is still active after the run.
func (o *RefreshOrchestrator) RunOnce(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshOrchestrator.RunOnce")
	defer span.End()

	if o.sync == nil || o.repo == nil {
		o.logger.WarnContext(ctx, "skip refresh: orchestrator is not fully configured")
		return
	}

	active, err := o.repo.Active(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "read active season failed", "error", err)
		return
	}

	var snap season.Snapshot
	pyroscope.TagWrapper(ctx, pyroscope.Labels("season", strconv.Itoa(active)), func(ctx context.Context) {
		snap, err = o.sync.Sync(ctx, active)
	})
	if err != nil {
		o.logger.WarnContext(ctx, "season refresh failed", "season", active, "error", err)
		return
	}

	current, err := o.repo.Active(ctx)
	if err != nil || current != snap.Season {
		o.logger.InfoContext(ctx, "active season changed during refresh", "synced", snap.Season, "active", current)
		return
	}
	if o.live != nil {
		o.live.Reconcile(ctx, snap)
	}
}

// Trigger requests an immediate refresh. It reports false when the
// orchestrator is not running.
func (o *RefreshOrchestrator) Trigger() bool {
	o.mu.Lock()
	task := o.task
	o.mu.Unlock()

	if task == nil {
		return false
	}
	return task.Trigger()
}

// SwitchSeason makes seasonYear active and queues a full refresh for it.
// State for the previous season stays stored under its own key.
func (o *RefreshOrchestrator) SwitchSeason(ctx context.Context, seasonYear int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshOrchestrator.SwitchSeason")
	defer span.End()

	if !o.Allowed(seasonYear) {
		return fmt.Errorf("%w: season %d is not configured", ErrInvalidInput, seasonYear)
	}
	if o.repo == nil {
		return fmt.Errorf("%w: season repository is not configured", ErrDependencyUnavailable)
	}
	if err := o.repo.SetActive(ctx, seasonYear); err != nil {
		return fmt.Errorf("set active season=%d: %w", seasonYear, err)
	}

	if !o.Trigger() {
		o.logger.WarnContext(ctx, "season switched while refresh is stopped", "season", seasonYear)
		return nil
	}
	o.logger.InfoContext(ctx, "season switched", "season", seasonYear)
	return nil
}

// Allowed reports whether the season is in the configured list. An empty
// list allows any positive season.
func (o *RefreshOrchestrator) Allowed(seasonYear int) bool {
	if seasonYear <= 0 {
		return false
	}
	if len(o.cfg.Seasons) == 0 {
		return true
	}
	return slices.Contains(o.cfg.Seasons, seasonYear)
}

func (o *RefreshOrchestrator) Seasons() []int {
	return slices.Clone(o.cfg.Seasons)
}
