package database

import (
	"context"
	"time"

	"alliance-tracker/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// NewRedis connects the snapshot cache. Redis being down is not fatal: the
// season service recomputes on every cache miss, so the client is returned
// even when the initial ping fails.
func NewRedis(cfg *config.Config, logger zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, snapshot cache disabled")
	} else {
		logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connection established")
	}

	return client
}
