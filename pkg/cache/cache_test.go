package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCache_IsNoop(t *testing.T) {
	t.Parallel()

	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.Nil(t, New(nil, time.Minute, "v"))

	var dst map[string]any
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	assert.NotPanics(t, func() {
		c.SetJSON(ctx, "k", map[string]any{"a": 1})
		c.Delete(ctx, "k")
		c.Bump(ctx)
	})
	_, err := c.Version(ctx)
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl, "test:version"), mr
}

func TestCache_Redis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	require.True(t, c.Enabled())

	v1, err := c.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v1)
	c.Bump(ctx)
	v2, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1+1, v2)

	c.SetJSON(ctx, "test:cache:item", map[string]int{"n": 7})
	var got map[string]int
	require.True(t, c.GetJSON(ctx, "test:cache:item", &got))
	assert.Equal(t, 7, got["n"])

	c.Delete(ctx, "test:cache:item")
	assert.False(t, c.GetJSON(ctx, "test:cache:item", &got))

	c.SetJSON(ctx, "test:cache:item", map[string]int{"n": 8})
	mr.FastForward(2 * time.Minute)
	assert.False(t, c.GetJSON(ctx, "test:cache:item", &got))
}

func TestCache_InvalidateProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	before, err := c.Version(ctx)
	require.NoError(t, err)
	c.SetJSON(ctx, ProductDetailKey("PROD-1"), map[string]int{"quantity": 5})
	c.SetJSON(ctx, ProductDetailKey("PROD-2"), map[string]int{"quantity": 9})
	c.SetJSON(ctx, ProductDetailKey("PROD-3"), map[string]int{"quantity": 1})

	c.InvalidateProducts(ctx, "PROD-1", "PROD-2")

	assert.False(t, mr.Exists(ProductDetailKey("PROD-1")))
	assert.False(t, mr.Exists(ProductDetailKey("PROD-2")))
	assert.True(t, mr.Exists(ProductDetailKey("PROD-3")))
	after, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	assert.NotPanics(t, func() {
		c.InvalidateProducts(ctx)
	})
	bumped, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, after+1, bumped)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("test:cache:bad", "{not json"))

	var got map[string]int
	assert.False(t, c.GetJSON(ctx, "test:cache:bad", &got))
}
