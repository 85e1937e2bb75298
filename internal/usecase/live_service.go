package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/platform/scheduler"
)

const defaultLiveInterval = 30 * time.Second

type LiveConfig struct {
	Interval time.Duration
}

// LiveService polls the in-progress game. The poll task exists only while a
// game is live: Reconcile creates it when one appears and tears it down when
// none remains.
type LiveService struct {
	summaries GameSummaryProvider
	repo      live.Repository
	mirror    SnapshotMirror
	cfg       LiveConfig
	logger    *logging.Logger

	mu        sync.Mutex
	task      *scheduler.Task
	gameID    string
	onGameEnd func()
}

func NewLiveService(summaries GameSummaryProvider, repo live.Repository, mirror SnapshotMirror, cfg LiveConfig, logger *logging.Logger) *LiveService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultLiveInterval
	}
	return &LiveService{
		summaries: summaries,
		repo:      repo,
		mirror:    mirror,
		cfg:       cfg,
		logger:    logger.Named("live"),
	}
}

// OnGameEnd registers a callback fired when a poll sees the game finish.
func (s *LiveService) OnGameEnd(fn func()) {
	s.mu.Lock()
	s.onGameEnd = fn
	s.mu.Unlock()
}

// Reconcile starts polling for the snapshot's in-progress game, or stops
// polling and clears the live state when there is none.
func (s *LiveService) Reconcile(ctx context.Context, snap season.Snapshot) {
	g, ok := snap.LiveGame()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		if s.task != nil {
			s.stopLocked()
			s.clear(ctx)
			s.logger.InfoContext(ctx, "live polling stopped", "season", snap.Season)
		}
		return
	}
	if s.task != nil && s.gameID == g.ID && s.task.Running() {
		return
	}

	s.stopLocked()
	s.gameID = g.ID
	gameID, site := g.ID, g.Site
	s.task = scheduler.NewTask("live_poll", s.cfg.Interval, func(ctx context.Context) {
		if _, err := s.Poll(ctx, gameID, site); err != nil {
			s.logger.WarnContext(ctx, "live poll failed", "game_id", gameID, "error", err)
		}
	}, s.logger)
	s.task.Start(ctx)
	s.logger.InfoContext(ctx, "live polling started", "game_id", g.ID, "interval", s.cfg.Interval.String())
}

// Poll refreshes the live snapshot once. A failed fetch keeps the previous
// snapshot. When the game is over the snapshot is cleared and polling ends.
func (s *LiveService) Poll(ctx context.Context, gameID string, site game.Site) (live.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveService.Poll")
	defer span.End()

	if s.summaries == nil || s.repo == nil {
		return live.Snapshot{}, fmt.Errorf("%w: live polling is not fully configured", ErrDependencyUnavailable)
	}

	snap, ok, err := s.summaries.FetchLiveSnapshot(ctx, gameID)
	if err != nil {
		s.logger.Health(ctx, "live", true, "game_id", gameID, "error", err)
		return live.Snapshot{}, fmt.Errorf("fetch live snapshot game=%s: %w", gameID, err)
	}
	if !ok {
		s.logger.Health(ctx, "live", true, "game_id", gameID, "reason", "team missing from summary")
		return live.Snapshot{}, fmt.Errorf("%w: game %s has no live data", ErrNotFound, gameID)
	}
	if snap.Site == "" {
		snap.Site = site
		snap = snap.Estimate()
	}

	if snap.State == game.StatePost {
		s.clear(ctx)
		s.logger.Health(ctx, "live", false, "game_id", gameID, "state", string(snap.State))
		go s.finish(gameID)
		return snap, nil
	}

	if err := s.repo.Set(ctx, snap); err != nil {
		return live.Snapshot{}, fmt.Errorf("store live snapshot game=%s: %w", gameID, err)
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorLive(ctx, snap); err != nil {
			s.logger.WarnContext(ctx, "mirror live snapshot failed", "error", err)
		}
	}
	s.logger.Health(ctx, "live", false,
		"game_id", gameID,
		"score", fmt.Sprintf("%d-%d", snap.TeamScore, snap.OpponentScore),
		"period", snap.Period,
		"clock", snap.Clock,
		"win_prob", snap.WinProb.Team,
	)
	return snap, nil
}

// Current returns the live snapshot, if a game is being polled.
func (s *LiveService) Current(ctx context.Context) (live.Snapshot, bool, error) {
	if s.repo == nil {
		return live.Snapshot{}, false, nil
	}
	return s.repo.Current(ctx)
}

// Polling reports the game being polled, empty when idle.
func (s *LiveService) Polling() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task == nil || !s.task.Running() {
		return ""
	}
	return s.gameID
}

func (s *LiveService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// finish runs outside the poll so stopping the task does not wait on itself.
func (s *LiveService) finish(gameID string) {
	s.mu.Lock()
	if s.gameID != gameID {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	onEnd := s.onGameEnd
	s.mu.Unlock()

	s.logger.Info("live game ended", "game_id", gameID)
	if onEnd != nil {
		onEnd()
	}
}

func (s *LiveService) stopLocked() {
	if s.task != nil {
		s.task.Stop()
	}
	s.task = nil
	s.gameID = ""
}

func (s *LiveService) clear(ctx context.Context) {
	if s.repo != nil {
		if err := s.repo.Clear(ctx); err != nil {
			s.logger.WarnContext(ctx, "clear live snapshot failed", "error", err)
		}
	}
	if s.mirror != nil {
		if err := s.mirror.ClearLive(ctx); err != nil {
			s.logger.WarnContext(ctx, "clear mirrored live snapshot failed", "error", err)
		}
	}
}
