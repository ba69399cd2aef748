package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/domain"
)

func TestMemoryRepositoryLoginIndex(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	ann, err := repo.Save(ctx, domain.User{Login: "ann", AccountIDs: []int64{9}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ann.ID)
	assert.Nil(t, ann.AccountIDs, "account ids are not persisted")

	_, err = repo.Save(ctx, domain.User{Login: "ann"})
	assert.ErrorIs(t, err, domain.ErrLoginConflict)

	ann.Login = "anna"
	_, err = repo.Save(ctx, ann)
	require.NoError(t, err)

	_, err = repo.FindByLogin(ctx, "ann")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	got, err := repo.FindByLogin(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.ID)

	_, err = repo.Save(ctx, domain.User{ID: 77, Login: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
