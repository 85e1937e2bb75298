package live

import "context"

// Repository holds the single current live snapshot, if a game is in progress.
type Repository interface {
	Current(ctx context.Context) (Snapshot, bool, error)
	Set(ctx context.Context, snapshot Snapshot) error
	Clear(ctx context.Context) error
}
