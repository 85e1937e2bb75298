package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
)

const (
	defaultKeyPrefix   = "hoops"
	defaultSeasonTTL   = 24 * time.Hour
	defaultLiveTTL     = 2 * time.Hour
	liveKeySuffix      = "live"
	seasonKeyComponent = "season"
)

// Client is the subset of go-redis the mirror writes through.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type MirrorConfig struct {
	KeyPrefix string
	SeasonTTL time.Duration
	LiveTTL   time.Duration
}

// SnapshotMirror writes season and live snapshots to Redis as JSON with a
// TTL. Keys: {prefix}:season:{year} and {prefix}:live.
type SnapshotMirror struct {
	client Client
	cfg    MirrorConfig
}

func NewSnapshotMirror(client Client, cfg MirrorConfig) *SnapshotMirror {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.SeasonTTL <= 0 {
		cfg.SeasonTTL = defaultSeasonTTL
	}
	if cfg.LiveTTL <= 0 {
		cfg.LiveTTL = defaultLiveTTL
	}
	return &SnapshotMirror{client: client, cfg: cfg}
}

func (m *SnapshotMirror) MirrorSeason(ctx context.Context, snapshot season.Snapshot) error {
	return m.write(ctx, m.SeasonKey(snapshot.Season), snapshot, m.cfg.SeasonTTL)
}

func (m *SnapshotMirror) MirrorLive(ctx context.Context, snapshot live.Snapshot) error {
	return m.write(ctx, m.LiveKey(), snapshot, m.cfg.LiveTTL)
}

func (m *SnapshotMirror) ClearLive(ctx context.Context) error {
	key := m.LiveKey()
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (m *SnapshotMirror) SeasonKey(seasonYear int) string {
	return m.cfg.KeyPrefix + ":" + seasonKeyComponent + ":" + strconv.Itoa(seasonYear)
}

func (m *SnapshotMirror) LiveKey() string {
	return m.cfg.KeyPrefix + ":" + liveKeySuffix
}

func (m *SnapshotMirror) write(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
