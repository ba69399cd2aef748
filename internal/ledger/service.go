package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"time"

	"github.com/corebank/corebank/internal/domain"
	"github.com/corebank/corebank/internal/notification"
)

const (
	maxCloseAttempts = 3
	// Largest integer a float64 holds exactly.
	maxExactFloat = 1 << 53
)

var errSiblingGone = errors.New("sweep target disappeared")

// OwnerLookup resolves account owners by login.
type OwnerLookup interface {
	FindByLogin(ctx context.Context, login string) (domain.User, error)
}

// Settings holds the money rules applied by the ledger.
type Settings struct {
	// DefaultBalance is credited to every newly opened account.
	DefaultBalance int64
	// TransferCommission is the fraction of an inter-user transfer that is
	// withheld from the destination. Must be in [0, 1).
	TransferCommission float64
}

// TransferResult describes the balances after a transfer.
type TransferResult struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
	Credited      int64
	Commission    int64
	FromBalance   int64
	ToBalance     int64
	CompletedAt   time.Time
}

// uncached is implemented by caching decorators that can hand out the store
// they wrap.
type uncached interface {
	Uncached() Repository
}

// Service owns accounts and every balance mutation.
type Service struct {
	repo     Repository
	// store serves the reads that feed a mutation. It bypasses any cache so a
	// locked read-modify-write always starts from the persisted balance.
	store    Repository
	owners   OwnerLookup
	settings Settings
	locks    *accountLocks
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds a ledger service. notifier may be nil.
func NewService(repo Repository, owners OwnerLookup, settings Settings, notifier notification.Notifier, logger *slog.Logger) *Service {
	store := repo
	if c, ok := repo.(uncached); ok {
		store = c.Uncached()
	}
	return &Service{
		repo:     repo,
		store:    store,
		owners:   owners,
		settings: settings,
		locks:    newAccountLocks(),
		notifier: notifier,
		logger:   logger,
	}
}

// Create opens an account with the default balance for the user with the given login.
func (s *Service) Create(ctx context.Context, ownerLogin string) (domain.Account, error) {
	owner, err := s.owners.FindByLogin(ctx, ownerLogin)
	if err != nil {
		return domain.Account{}, fmt.Errorf("resolve owner %q: %w", ownerLogin, err)
	}
	return s.Open(ctx, owner.ID)
}

// Open creates an account with the default balance for an already resolved owner.
func (s *Service) Open(ctx context.Context, ownerID int64) (domain.Account, error) {
	account, err := s.repo.Save(ctx, domain.Account{
		UserID:    ownerID,
		Balance:   s.settings.DefaultBalance,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("open account for user %d: %w", ownerID, err)
	}
	s.logger.Info("ledger.open completed",
		slog.Int64("account_id", account.ID),
		slog.Int64("user_id", ownerID),
		slog.Int64("balance", account.Balance),
	)
	return account, nil
}

// FindByID returns the account with the given id.
func (s *Service) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// ListForUser returns the accounts owned by userID. A user without accounts
// yields an empty slice.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// Deposit credits amount to the account.
func (s *Service) Deposit(ctx context.Context, id, amount int64) (domain.Account, error) {
	if amount <= 0 {
		return domain.Account{}, fmt.Errorf("deposit %d: %w", amount, domain.ErrInvalidAmount)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if amount > math.MaxInt64-account.Balance {
		return domain.Account{}, fmt.Errorf("deposit %d into account %d holding %d: %w",
			amount, id, account.Balance, domain.ErrBalanceOverflow)
	}
	account.Balance += amount
	account, err = s.repo.Save(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("save account %d: %w", id, err)
	}

	s.logger.Info("ledger.deposit completed",
		slog.Int64("account_id", id),
		slog.Int64("amount", amount),
		slog.Int64("balance", account.Balance),
	)
	return account, nil
}

// Withdraw debits amount from the account.
func (s *Service) Withdraw(ctx context.Context, id, amount int64) (domain.Account, error) {
	if amount <= 0 {
		return domain.Account{}, fmt.Errorf("withdraw %d: %w", amount, domain.ErrInvalidAmount)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if account.Balance < amount {
		return domain.Account{}, fmt.Errorf("withdraw %d from account %d holding %d: %w",
			amount, id, account.Balance, domain.ErrInsufficientFunds)
	}
	account.Balance -= amount
	account, err = s.repo.Save(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("save account %d: %w", id, err)
	}

	s.logger.Info("ledger.withdraw completed",
		slog.Int64("account_id", id),
		slog.Int64("amount", amount),
		slog.Int64("balance", account.Balance),
	)
	return account, nil
}

// Transfer moves amount from one account to another. The source is always
// debited the full amount; when the accounts belong to different users the
// destination is credited floor(amount * (1 - commission)) and the remainder
// is not credited anywhere. A transfer from an account to itself is refused
// with domain.ErrSameAccount.
//
// The debit and the credit are two separate writes and are not atomic
// against a crash between them.
func (s *Service) Transfer(ctx context.Context, fromID, toID, amount int64) (TransferResult, error) {
	unlock := s.locks.Lock(fromID, toID)
	defer unlock()

	from, err := s.store.FindByID(ctx, fromID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("source account %d: %w", fromID, err)
	}
	to, err := s.store.FindByID(ctx, toID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("destination account %d: %w", toID, err)
	}
	if amount <= 0 {
		return TransferResult{}, fmt.Errorf("transfer %d: %w", amount, domain.ErrInvalidAmount)
	}
	if fromID == toID {
		return TransferResult{}, domain.ErrSameAccount
	}
	if from.Balance < amount {
		return TransferResult{}, fmt.Errorf("transfer %d from account %d holding %d: %w",
			amount, fromID, from.Balance, domain.ErrInsufficientFunds)
	}

	credited := s.creditFor(amount, from.UserID == to.UserID)
	if credited > math.MaxInt64-to.Balance {
		return TransferResult{}, fmt.Errorf("credit %d to account %d holding %d: %w",
			credited, toID, to.Balance, domain.ErrBalanceOverflow)
	}
	from.Balance -= amount
	to.Balance += credited

	if from, err = s.repo.Save(ctx, from); err != nil {
		return TransferResult{}, fmt.Errorf("save source account %d: %w", fromID, err)
	}
	if to, err = s.repo.Save(ctx, to); err != nil {
		return TransferResult{}, fmt.Errorf("save destination account %d: %w", toID, err)
	}

	res := TransferResult{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Credited:      credited,
		Commission:    amount - credited,
		FromBalance:   from.Balance,
		ToBalance:     to.Balance,
		CompletedAt:   time.Now().UTC(),
	}

	s.logger.Info("ledger.transfer completed",
		slog.Int64("from_account_id", fromID),
		slog.Int64("to_account_id", toID),
		slog.Int64("amount", amount),
		slog.Int64("credited", credited),
		slog.Int64("commission", res.Commission),
	)
	s.notify(ctx, notification.Message{
		Kind:   notification.KindTransferReceived,
		UserID: to.UserID,
		Body:   fmt.Sprintf("You received %d on account %d from account %d", credited, toID, fromID),
	})

	return res, nil
}

// Close deletes the account after sweeping its whole balance into another
// account of the same owner (the one with the lowest id). Closing a user's
// only account fails with domain.ErrLastAccount. The returned account is the
// closed record as it was just before deletion.
//
// The sweep and the delete are two separate writes and are not atomic
// against a crash between them.
func (s *Service) Close(ctx context.Context, id int64) (domain.Account, error) {
	for attempt := 0; attempt < maxCloseAttempts; attempt++ {
		account, err := s.store.FindByID(ctx, id)
		if err != nil {
			return domain.Account{}, err
		}
		siblings, err := s.store.FindByOwner(ctx, account.UserID)
		if err != nil {
			return domain.Account{}, fmt.Errorf("list accounts of user %d: %w", account.UserID, err)
		}
		target, ok := firstOther(siblings, id)
		if !ok {
			return domain.Account{}, fmt.Errorf("close account %d: %w", id, domain.ErrLastAccount)
		}

		closed, swept, err := s.sweep(ctx, id, target.ID)
		if errors.Is(err, errSiblingGone) {
			continue
		}
		if err != nil {
			return domain.Account{}, err
		}

		s.logger.Info("ledger.close completed",
			slog.Int64("account_id", id),
			slog.Int64("swept_into", swept.ID),
			slog.Int64("amount", closed.Balance),
		)
		s.notify(ctx, notification.Message{
			Kind:   notification.KindAccountClosed,
			UserID: closed.UserID,
			Body:   fmt.Sprintf("Account %d closed, %d moved to account %d", id, closed.Balance, swept.ID),
		})
		return closed, nil
	}
	return domain.Account{}, fmt.Errorf("close account %d: sweep target kept changing", id)
}

func (s *Service) sweep(ctx context.Context, id, targetID int64) (domain.Account, domain.Account, error) {
	unlock := s.locks.Lock(id, targetID)
	defer unlock()

	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	target, err := s.store.FindByID(ctx, targetID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.Account{}, domain.Account{}, errSiblingGone
	}
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if account.Balance > math.MaxInt64-target.Balance {
		return domain.Account{}, domain.Account{}, fmt.Errorf("sweep %d into account %d holding %d: %w",
			account.Balance, targetID, target.Balance, domain.ErrBalanceOverflow)
	}
	target.Balance += account.Balance
	if target, err = s.repo.Save(ctx, target); err != nil {
		return domain.Account{}, domain.Account{}, fmt.Errorf("save account %d: %w", targetID, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.Account{}, domain.Account{}, fmt.Errorf("delete account %d: %w", id, err)
	}
	return account, target, nil
}

// creditFor returns floor(amount * (1 - commission)), never more than amount.
// Amounts beyond float64 precision are computed exactly on the same rate.
func (s *Service) creditFor(amount int64, sameOwner bool) int64 {
	rate := 1 - s.settings.TransferCommission
	if sameOwner || rate >= 1 {
		return amount
	}
	if amount <= maxExactFloat {
		return min(int64(math.Floor(float64(amount)*rate)), amount)
	}
	credit := new(big.Rat).Mul(new(big.Rat).SetInt64(amount), new(big.Rat).SetFloat64(rate))
	whole := new(big.Int).Quo(credit.Num(), credit.Denom())
	if !whole.IsInt64() || whole.Int64() > amount {
		return amount
	}
	return whole.Int64()
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}

func firstOther(accounts []domain.Account, id int64) (domain.Account, bool) {
	for _, account := range accounts {
		if account.ID != id {
			return account, true
		}
	}
	return domain.Account{}, false
}
