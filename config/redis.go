package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis. An empty address returns a nil client; callers
// treat that as "cache and rate limiting disabled".
func InitRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		slog.Warn("REDIS_ADD not set, cache and rate limiting disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	slog.Info("connected to Redis", "addr", addr)
	return client, nil
}
