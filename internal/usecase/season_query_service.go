package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
)

// SeasonList is the configured seasons and the active one.
type SeasonList struct {
	Seasons []int
	Active  int
}

// LiveView is what the live endpoint shows: the in-progress game when there
// is one, otherwise the next scheduled game.
type LiveView struct {
	Snapshot *live.Snapshot
	NextGame *game.GameRecord
}

type SeasonQueryService struct {
	repo    season.Repository
	live    live.Repository
	seasons []int
	now     func() time.Time
}

func NewSeasonQueryService(repo season.Repository, liveRepo live.Repository, seasons []int) *SeasonQueryService {
	return &SeasonQueryService{
		repo:    repo,
		live:    liveRepo,
		seasons: seasons,
		now:     time.Now,
	}
}

func (s *SeasonQueryService) ListSeasons(ctx context.Context) (SeasonList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonQueryService.ListSeasons")
	defer span.End()

	active, err := s.repo.Active(ctx)
	if err != nil {
		return SeasonList{}, fmt.Errorf("read active season: %w", err)
	}
	seasons := make([]int, len(s.seasons))
	copy(seasons, s.seasons)
	return SeasonList{Seasons: seasons, Active: active}, nil
}

// GetSnapshot returns the stored snapshot for a season.
func (s *SeasonQueryService) GetSnapshot(ctx context.Context, seasonYear int) (season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonQueryService.GetSnapshot")
	defer span.End()

	if seasonYear <= 0 {
		return season.Snapshot{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	snap, ok, err := s.repo.Get(ctx, seasonYear)
	if err != nil {
		return season.Snapshot{}, fmt.Errorf("get season snapshot season=%d: %w", seasonYear, err)
	}
	if !ok {
		return season.Snapshot{}, fmt.Errorf("%w: season=%d has not been loaded", ErrNotFound, seasonYear)
	}
	return snap, nil
}

// GetLive returns the live snapshot, or the active season's next game when
// nothing is in progress. Both may be absent.
func (s *SeasonQueryService) GetLive(ctx context.Context) (LiveView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonQueryService.GetLive")
	defer span.End()

	if s.live != nil {
		snap, ok, err := s.live.Current(ctx)
		if err != nil {
			return LiveView{}, fmt.Errorf("get live snapshot: %w", err)
		}
		if ok {
			return LiveView{Snapshot: &snap}, nil
		}
	}

	active, err := s.repo.Active(ctx)
	if err != nil {
		return LiveView{}, fmt.Errorf("read active season: %w", err)
	}
	snap, ok, err := s.repo.Get(ctx, active)
	if err != nil {
		return LiveView{}, fmt.Errorf("get season snapshot season=%d: %w", active, err)
	}
	if !ok {
		return LiveView{}, nil
	}
	if next, found := snap.NextGame(s.now()); found {
		return LiveView{NextGame: &next}, nil
	}
	return LiveView{}, nil
}
