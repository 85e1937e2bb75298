package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/hoops-hub/internal/domain/season"
)

// SeasonRepository keeps the latest snapshot per season. Writes replace the
// whole snapshot for that season only, so a late run for a season that is no
// longer active cannot touch the active one.
type SeasonRepository struct {
	mu       sync.RWMutex
	bySeason map[int]season.Snapshot
	active   int
}

func NewSeasonRepository(active int) *SeasonRepository {
	return &SeasonRepository{
		bySeason: make(map[int]season.Snapshot),
		active:   active,
	}
}

func (r *SeasonRepository) Save(_ context.Context, snapshot season.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bySeason[snapshot.Season] = snapshot
	return nil
}

func (r *SeasonRepository) Get(_ context.Context, seasonYear int) (season.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.bySeason[seasonYear]
	return snap, ok, nil
}

func (r *SeasonRepository) Active(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active, nil
}

func (r *SeasonRepository) SetActive(_ context.Context, seasonYear int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = seasonYear
	return nil
}
