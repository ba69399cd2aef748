package ledger

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corebank/corebank/internal/cache"
	"github.com/corebank/corebank/internal/domain"
)

const (
	accountKeyPrefix      = "account:v1:"
	ownerAccountKeyPrefix = "user-accounts:v1:"
)

// CachedRepository is a read-through Redis cache in front of another
// Repository. Single accounts and per-owner listings are cached; every write
// evicts the affected entries.
type CachedRepository struct {
	next     Repository
	accounts *cache.JSON[domain.Account]
	owners   *cache.JSON[[]domain.Account]
}

// NewCachedRepository wraps next with a Redis cache using the given ttl.
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:     next,
		accounts: cache.NewJSON[domain.Account](client, accountKeyPrefix, ttl, logger),
		owners:   cache.NewJSON[[]domain.Account](client, ownerAccountKeyPrefix, ttl, logger),
	}
}

// Save writes through and evicts the account and its owner's listing.
func (r *CachedRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	saved, err := r.next.Save(ctx, account)
	if err != nil {
		return domain.Account{}, err
	}
	r.accounts.Delete(ctx, idKey(saved.ID))
	r.owners.Delete(ctx, idKey(saved.UserID))
	return saved, nil
}

// FindByID serves from cache, falling back to the wrapped repository.
func (r *CachedRepository) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	if account, ok := r.accounts.Get(ctx, idKey(id)); ok {
		return account, nil
	}
	account, err := r.next.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	r.accounts.Set(ctx, idKey(id), account)
	return account, nil
}

// FindAll is never cached.
func (r *CachedRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	return r.next.FindAll(ctx)
}

// FindByOwner serves the owner's listing from cache when present.
func (r *CachedRepository) FindByOwner(ctx context.Context, userID int64) ([]domain.Account, error) {
	if accounts, ok := r.owners.Get(ctx, idKey(userID)); ok {
		return accounts, nil
	}
	accounts, err := r.next.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.owners.Set(ctx, idKey(userID), accounts)
	return accounts, nil
}

// Delete removes the account and evicts its cache entries.
func (r *CachedRepository) Delete(ctx context.Context, id int64) error {
	account, findErr := r.next.FindByID(ctx, id)
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.accounts.Delete(ctx, idKey(id))
	if findErr == nil {
		r.owners.Delete(ctx, idKey(account.UserID))
	}
	return nil
}

// Uncached returns the wrapped repository. The ledger reads balances it is
// about to change from there, since a concurrent cache fill may have stored
// a value older than the latest write.
func (r *CachedRepository) Uncached() Repository {
	return r.next
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
