// Package cache is a small JSON cache on Redis with version-key
// invalidation: list keys embed the current version, and bumping the version
// makes every older list entry unreachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techadict/shop/pkg/logging"
)

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Cache is safe to use as a nil pointer, in which case every lookup misses
// and every write is dropped.
type Cache struct {
	rdb        *redis.Client
	ttl        time.Duration
	versionKey string
}

func New(rdb *redis.Client, ttl time.Duration, versionKey string) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl, versionKey: versionKey}
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).Warn("cache_get_failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logging.FromContext(ctx).Warn("cache_decode_failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(ctx).Warn("cache_encode_failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logging.FromContext(ctx).Warn("cache_set_failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logging.FromContext(ctx).Warn("cache_delete_failed", "keys", keys, "error", err)
	}
}

// Version returns the current list version, initialising it to 1.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, errors.New("cache disabled")
	}
	ver, err := c.rdb.Get(ctx, c.versionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	if err := c.rdb.SetNX(ctx, c.versionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.rdb.Get(ctx, c.versionKey).Int64()
}

// ProductDetailKey is where a single product response is cached.
func ProductDetailKey(id string) string { return "product:detail:" + id }

// InvalidateProducts drops the detail entries of ids and bumps the version so
// every cached list is rebuilt. Call it after any write that changes what a
// product response shows.
func (c *Cache) InvalidateProducts(ctx context.Context, ids ...string) {
	if !c.Enabled() {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ProductDetailKey(id))
	}
	c.Delete(ctx, keys...)
	c.Bump(ctx)
}

// Bump invalidates every versioned key.
func (c *Cache) Bump(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, c.versionKey).Err(); err != nil {
		logging.FromContext(ctx).Error("cache_invalidate_failed", "key", c.versionKey, "error", err)
	}
}
