package directory

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corebank/corebank/internal/cache"
	"github.com/corebank/corebank/internal/domain"
)

const userKeyPrefix = "user:v1:"

// CachedRepository caches user lookups by id in Redis.
type CachedRepository struct {
	next  Repository
	users *cache.JSON[domain.User]
}

// NewCachedRepository wraps next with a Redis cache using the given ttl.
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:  next,
		users: cache.NewJSON[domain.User](client, userKeyPrefix, ttl, logger),
	}
}

// Save writes through and evicts the cached user.
func (r *CachedRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	saved, err := r.next.Save(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	r.users.Delete(ctx, strconv.FormatInt(saved.ID, 10))
	return saved, nil
}

// FindByID serves from cache, falling back to the wrapped repository.
func (r *CachedRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	key := strconv.FormatInt(id, 10)
	if user, ok := r.users.Get(ctx, key); ok {
		return user, nil
	}
	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	r.users.Set(ctx, key, user)
	return user, nil
}

// FindByLogin always reads through so login uniqueness checks see the store.
func (r *CachedRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	return r.next.FindByLogin(ctx, login)
}

// FindAll is never cached.
func (r *CachedRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.next.FindAll(ctx)
}
