package redis

import "context"

// StatsCacheInterface defines the cache operations used by the aggregator.
type StatsCacheInterface interface {
	GetPlatformStats(ctx context.Context) ([]byte, error)
	SetPlatformStats(ctx context.Context, data []byte) error
	GetLeaderboard(ctx context.Context) ([]byte, error)
	SetLeaderboard(ctx context.Context, data []byte) error
	InvalidateStats(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var _ StatsCacheInterface = (*CacheStore)(nil)
