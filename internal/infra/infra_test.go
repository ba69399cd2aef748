package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingURLs(t *testing.T) {
	ctx := context.Background()

	_, err := NewPostgresPool(ctx, "")
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = NewRedisClient(ctx, "")
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestInvalidURLs(t *testing.T) {
	ctx := context.Background()

	_, err := NewPostgresPool(ctx, "postgres://%zz")
	assert.ErrorContains(t, err, "parse postgres config")

	_, err = NewRedisClient(ctx, "http://localhost:6379")
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewRedisClientPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
