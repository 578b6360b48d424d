package service

import (
	"context"
	"encoding/json"
	"time"

	"alliance-tracker/internal/analytics"
	"alliance-tracker/internal/constants"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// SnapshotCache keeps the latest computed SeasonAnalytics in redis. Every
// failure path degrades to a miss: the season service recomputes, and a
// mutation that cannot invalidate only shortens the snapshot's TTL window.
type SnapshotCache struct {
	client *redis.Client
	logger zerolog.Logger
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, logger zerolog.Logger) *SnapshotCache {
	return &SnapshotCache{client: client, logger: logger, ttl: constants.AnalyticsCacheTTL}
}

func (c *SnapshotCache) Get(ctx context.Context) (*analytics.SeasonAnalytics, bool) {
	raw, err := c.client.Get(ctx, constants.AnalyticsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("snapshot cache read failed")
		}
		return nil, false
	}

	var snapshot analytics.SeasonAnalytics
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.Warn().Err(err).Msg("snapshot cache entry corrupt, dropping")
		c.Invalidate(ctx)
		return nil, false
	}
	return &snapshot, true
}

func (c *SnapshotCache) Set(ctx context.Context, snapshot *analytics.SeasonAnalytics) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode snapshot for cache")
		return
	}
	if err := c.client.Set(ctx, constants.AnalyticsCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("snapshot cache write failed")
	}
}

func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, constants.AnalyticsCacheKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("snapshot cache invalidation failed")
	}
}
