package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/corebank/corebank/internal/domain"
)

// Accounts is the part of the ledger the directory depends on.
type Accounts interface {
	Open(ctx context.Context, ownerID int64) (domain.Account, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Account, error)
}

// Service manages users and login uniqueness.
type Service struct {
	repo     Repository
	accounts Accounts
	logger   *slog.Logger
}

// NewService creates a directory service.
func NewService(repo Repository, accounts Accounts, logger *slog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, logger: logger}
}

// Create registers a user under login and opens their first account.
//
// If opening the account fails the user record remains without accounts.
func (s *Service) Create(ctx context.Context, login string) (domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return domain.User{}, domain.ErrInvalidLogin
	}

	if _, err := s.repo.FindByLogin(ctx, login); err == nil {
		return domain.User{}, fmt.Errorf("create user %q: %w", login, domain.ErrLoginConflict)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	user, err := s.repo.Save(ctx, domain.User{Login: login, CreatedAt: time.Now().UTC()})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user %q: %w", login, err)
	}

	account, err := s.accounts.Open(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	user.AccountIDs = []int64{account.ID}

	s.logger.Info("directory.create completed",
		slog.Int64("user_id", user.ID),
		slog.String("login", user.Login),
		slog.Int64("account_id", account.ID),
	)
	return user, nil
}

// FindByID returns the user with the given id.
func (s *Service) FindByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return s.withAccounts(ctx, user)
}

// FindByLogin returns the user registered under login.
func (s *Service) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return domain.User{}, err
	}
	return s.withAccounts(ctx, user)
}

// List returns every known user.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i], err = s.withAccounts(ctx, users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Service) withAccounts(ctx context.Context, user domain.User) (domain.User, error) {
	accounts, err := s.accounts.ListForUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("list accounts of user %d: %w", user.ID, err)
	}
	user.AccountIDs = make([]int64, 0, len(accounts))
	for _, account := range accounts {
		user.AccountIDs = append(user.AccountIDs, account.ID)
	}
	return user, nil
}
