package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/hoops-hub/internal/domain/analytics"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
)

const defaultAnalyticsWorkers = 4

type AnalyticsConfig struct {
	Window     int
	MaxWorkers int
}

// AnalyticsService enriches the most recent completed games with box scores
// and derives one analytics row per game.
type AnalyticsService struct {
	summaries GameSummaryProvider
	cfg       AnalyticsConfig
	logger    *logging.Logger
}

type AnalyticsResult struct {
	// Games is the input schedule with box counts attached to the games
	// in the window that loaded.
	Games     []game.GameRecord
	Rows      []analytics.Row
	Requested int
	Failed    int
}

func NewAnalyticsService(summaries GameSummaryProvider, cfg AnalyticsConfig, logger *logging.Logger) *AnalyticsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = analytics.DefaultWindow
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultAnalyticsWorkers
	}
	return &AnalyticsService{
		summaries: summaries,
		cfg:       cfg,
		logger:    logger.Named("analytics"),
	}
}

// Compute fetches box scores for the window of completed games that lack
// them and returns the enriched schedule plus rows in date order. A game
// whose summary fails is left out of the rows. The error is non-nil only
// when every requested summary failed.
func (s *AnalyticsService) Compute(ctx context.Context, games []game.GameRecord) (AnalyticsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.Compute")
	defer span.End()

	out := AnalyticsResult{Games: make([]game.GameRecord, len(games))}
	copy(out.Games, games)

	window := analytics.Window(out.Games, s.cfg.Window)
	if len(window) == 0 {
		out.Rows = []analytics.Row{}
		return out, nil
	}

	pending := make([]string, 0, len(window))
	for _, g := range window {
		if g.TeamBox == nil || g.OpponentBox == nil {
			pending = append(pending, g.ID)
		}
	}

	boxes, failed, err := s.fetchBoxScores(ctx, pending)
	if err != nil {
		return out, err
	}
	out.Requested = len(pending)
	out.Failed = failed

	inWindow := make(map[string]struct{}, len(window))
	for _, g := range window {
		inWindow[g.ID] = struct{}{}
	}
	for i := range out.Games {
		box, ok := boxes[out.Games[i].ID]
		if !ok {
			continue
		}
		if _, ok := inWindow[out.Games[i].ID]; ok {
			out.Games[i].TeamBox = box.Team
			out.Games[i].OpponentBox = box.Opponent
		}
	}

	rows := make([]analytics.Row, 0, len(window))
	for _, g := range analytics.Window(out.Games, s.cfg.Window) {
		if row, ok := analytics.ForGame(g); ok {
			rows = append(rows, row)
		}
	}
	out.Rows = rows

	if out.Requested > 0 && out.Failed == out.Requested {
		return out, fmt.Errorf("%w: all %d game summaries failed", ErrDependencyUnavailable, out.Failed)
	}
	return out, nil
}

func (s *AnalyticsService) fetchBoxScores(ctx context.Context, gameIDs []string) (map[string]ExternalBoxScores, int, error) {
	out := make(map[string]ExternalBoxScores, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, 0, nil
	}
	if s.summaries == nil {
		return out, len(gameIDs), nil
	}

	workerCount := min(s.cfg.MaxWorkers, len(gameIDs))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		failed atomic.Int32
		wg     sync.WaitGroup
	)
	for _, gameID := range gameIDs {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			box, err := s.summaries.FetchBoxScores(ctx, gameID)
			if err != nil || box.Team == nil || box.Opponent == nil {
				failed.Add(1)
				s.logger.DebugContext(ctx, "game summary unavailable", "game_id", gameID, "error", err)
				return
			}
			mu.Lock()
			out[gameID] = box
			mu.Unlock()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	return out, int(failed.Load()), nil
}
