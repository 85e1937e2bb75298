package usecase

import (
	"context"

	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
)

// SnapshotMirror copies finished snapshots to an external cache for other
// consumers. The in-process repositories stay the source of truth.
type SnapshotMirror interface {
	MirrorSeason(ctx context.Context, snapshot season.Snapshot) error
	MirrorLive(ctx context.Context, snapshot live.Snapshot) error
	ClearLive(ctx context.Context) error
}
