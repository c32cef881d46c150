// Package cache stores rendered result pages in Redis, keyed per user so a
// user's writes can drop only that user's entries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "page:"
	scanCount = 100
)

// Cache is safe to use with a nil client; every call is then a miss or no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key hashes the query so arbitrary request bodies make bounded keys.
func Key(userID, query string) string {
	sum := sha256.Sum256([]byte(userID + ":" + query))
	return keyPrefix + userID + ":" + hex.EncodeToString(sum[:])
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get decodes the cached value into dst and reports whether it was present.
func (c *Cache) Get(ctx context.Context, userID, query string, dst interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}

	data, err := c.client.Get(ctx, Key(userID, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis GET: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding cached value: %w", err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, userID, query string, v interface{}) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if err := c.client.Set(ctx, Key(userID, query), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	return nil
}

func (c *Cache) InvalidateUser(ctx context.Context, userID string) error {
	return c.deletePattern(ctx, keyPrefix+userID+":*")
}

// InvalidateAll drops every cached page, used when the catalog itself changes.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	return c.deletePattern(ctx, keyPrefix+"*")
}

func (c *Cache) deletePattern(ctx context.Context, pattern string) error {
	if !c.enabled() {
		return nil
	}

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("redis SCAN %q: %w", pattern, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting %d cache keys: %w", len(keys), err)
	}
	slog.Debug("cache invalidated", "pattern", pattern, "keys", len(keys))
	return nil
}
