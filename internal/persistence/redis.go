package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/config"
)

// Redis wraps the go-redis client backing the shared identifier sequences.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis. An empty address yields a disabled client; readiness then
// reports redis as not configured, which only matters for SEQUENCE_BACKEND=redis.
func NewRedis(ctx context.Context, cfg config.RedisConfig, required bool, logger *zap.Logger) (*Redis, error) {
	if cfg.Addr == "" {
		return &Redis{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		if required {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &Redis{Client: client}, nil
}

// Enabled reports whether a client was configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
