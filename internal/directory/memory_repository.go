package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corebank/corebank/internal/domain"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]domain.User
	byLogin map[string]int64
}

// NewMemoryRepository builds an in-memory user store.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		users:   make(map[int64]domain.User),
		byLogin: make(map[string]int64),
	}
}

func (r *memoryRepository) Save(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.AccountIDs = nil

	if owner, taken := r.byLogin[user.Login]; taken && owner != user.ID {
		return domain.User{}, domain.ErrLoginConflict
	}

	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
	} else {
		existing, ok := r.users[user.ID]
		if !ok {
			return domain.User{}, domain.ErrUserNotFound
		}
		delete(r.byLogin, existing.Login)
	}

	r.users[user.ID] = user
	r.byLogin[user.Login] = user.ID
	return user, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByLogin(_ context.Context, login string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byLogin[login]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
