package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTL constants. Stats are derived from the append-only history, so a
// stale cache entry is only ever a few seconds behind and never
// authoritative.
const (
	PlatformStatsTTL = 30 * time.Second
	LeaderboardTTL   = 30 * time.Second
)

// Cache keys
const (
	platformStatsKey = "cache:stats:platform"
	leaderboardKey   = "cache:stats:leaderboard"
)

// CacheStore holds short-lived cached copies of derived aggregates.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetPlatformStats retrieves the cached platform stats payload.
// Returns nil on cache miss.
func (s *CacheStore) GetPlatformStats(ctx context.Context) ([]byte, error) {
	return s.get(ctx, platformStatsKey)
}

// SetPlatformStats stores the platform stats payload.
func (s *CacheStore) SetPlatformStats(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, platformStatsKey, data, PlatformStatsTTL).Err()
}

// GetLeaderboard retrieves the cached collector leaderboard payload.
// Returns nil on cache miss.
func (s *CacheStore) GetLeaderboard(ctx context.Context) ([]byte, error) {
	return s.get(ctx, leaderboardKey)
}

// SetLeaderboard stores the collector leaderboard payload.
func (s *CacheStore) SetLeaderboard(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, leaderboardKey, data, LeaderboardTTL).Err()
}

// InvalidateStats drops all cached aggregates. Called after any write that
// changes what the aggregator would derive.
func (s *CacheStore) InvalidateStats(ctx context.Context) error {
	return s.client.Del(ctx, platformStatsKey, leaderboardKey).Err()
}

func (s *CacheStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}
