package memory

import (
	"context"
	"sync/atomic"

	"github.com/riskibarqy/hoops-hub/internal/domain/live"
)

type LiveRepository struct {
	current atomic.Pointer[live.Snapshot]
}

func NewLiveRepository() *LiveRepository {
	return &LiveRepository{}
}

func (r *LiveRepository) Current(_ context.Context) (live.Snapshot, bool, error) {
	snap := r.current.Load()
	if snap == nil {
		return live.Snapshot{}, false, nil
	}
	return *snap, true, nil
}

func (r *LiveRepository) Set(_ context.Context, snapshot live.Snapshot) error {
	r.current.Store(&snapshot)
	return nil
}

func (r *LiveRepository) Clear(_ context.Context) error {
	r.current.Store(nil)
	return nil
}
