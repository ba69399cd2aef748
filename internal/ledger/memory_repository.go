package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corebank/corebank/internal/domain"
)

type memoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]domain.Account
}

// NewMemoryRepository constructs an in-memory account store.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[int64]domain.Account)}
}

func (r *memoryRepository) Save(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == 0 {
		r.nextID++
		account.ID = r.nextID
		if account.CreatedAt.IsZero() {
			account.CreatedAt = time.Now().UTC()
		}
		r.accounts[account.ID] = account
		return account, nil
	}
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	r.accounts[account.ID] = account
	return account, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	sortByID(out)
	return out, nil
}

func (r *memoryRepository) FindByOwner(_ context.Context, userID int64) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0)
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func sortByID(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
}
