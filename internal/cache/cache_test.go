package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/logging"
)

type entry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*JSON[entry], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewJSON[entry](client, "entry:", ttl, logging.Discard()), mr
}

func TestJSONRoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "1")
	assert.False(t, ok, "empty cache should miss")

	c.Set(ctx, "1", entry{Name: "a", Count: 3})
	got, ok := c.Get(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, entry{Name: "a", Count: 3}, got)
	assert.True(t, mr.Exists("entry:1"))

	c.Delete(ctx, "1")
	_, ok = c.Get(ctx, "1")
	assert.False(t, ok, "deleted entry should miss")
}

func TestJSONExpires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "1", entry{Name: "a"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "1")
	assert.False(t, ok)
}

func TestJSONCorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t, 0)
	require.NoError(t, mr.Set("entry:1", "{not json"))

	_, ok := c.Get(context.Background(), "1")
	assert.False(t, ok)
}
