package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSON stores values of type T in Redis as JSON documents under a key prefix.
// Failures are logged and treated as misses so callers always fall back to the
// source of truth.
type JSON[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewJSON builds a cache for T. A zero ttl keeps entries until evicted.
func NewJSON[T any](client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *JSON[T] {
	return &JSON[T]{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Key returns the full Redis key for id.
func (c *JSON[T]) Key(id string) string {
	return c.prefix + id
}

// Get loads the value stored under id. The boolean is false on a miss.
func (c *JSON[T]) Get(ctx context.Context, id string) (T, bool) {
	var zero T
	data, err := c.client.Get(ctx, c.Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", slog.String("key", c.Key(id)), slog.Any("error", err))
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("cache decode failed", slog.String("key", c.Key(id)), slog.Any("error", err))
		return zero, false
	}
	return v, true
}

// Set stores value under id.
func (c *JSON[T]) Set(ctx context.Context, id string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", slog.String("key", c.Key(id)), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, c.Key(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", slog.String("key", c.Key(id)), slog.Any("error", err))
	}
}

// Delete evicts the given ids.
func (c *JSON[T]) Delete(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.Key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache evict failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}
