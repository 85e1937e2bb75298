package season

import "context"

// Repository holds the latest snapshot per season and which season is active.
type Repository interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Get(ctx context.Context, season int) (Snapshot, bool, error)
	Active(ctx context.Context) (int, error)
	SetActive(ctx context.Context, season int) error
}
