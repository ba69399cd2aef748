package directory

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/domain"
	"github.com/corebank/corebank/internal/logging"
)

func TestCachedRepositoryCachesByID(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewCachedRepository(NewMemoryRepository(), client, time.Minute, logging.Discard())
	ctx := context.Background()

	ann, err := repo.Save(ctx, domain.User{Login: "ann"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(userKeyPrefix+"1"))

	got, err := repo.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Login)
	assert.True(t, mr.Exists(userKeyPrefix+"1"))

	ann.Login = "anna"
	_, err = repo.Save(ctx, ann)
	require.NoError(t, err)
	assert.False(t, mr.Exists(userKeyPrefix+"1"))

	got, err = repo.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Login)

	_, err = repo.FindByLogin(ctx, "anna")
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.User{Login: "anna"})
	assert.ErrorIs(t, err, domain.ErrLoginConflict)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.False(t, mr.Exists(userKeyPrefix+"99"))
}
