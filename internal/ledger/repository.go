package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/corebank/internal/domain"
)

// Repository persists accounts.
type Repository interface {
	// Save inserts the account when its ID is zero, assigning a fresh ID,
	// and updates it otherwise.
	Save(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByID(ctx context.Context, id int64) (domain.Account, error)
	FindAll(ctx context.Context) ([]domain.Account, error)
	FindByOwner(ctx context.Context, userID int64) ([]domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts or updates an account record.
func (r *PostgresRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	if account.ID == 0 {
		if account.CreatedAt.IsZero() {
			account.CreatedAt = time.Now().UTC()
		}
		row := r.db.QueryRow(ctx, `INSERT INTO accounts (user_id, balance, created_at)
        VALUES ($1, $2, $3) RETURNING id`, account.UserID, account.Balance, account.CreatedAt.UTC())
		if err := row.Scan(&account.ID); err != nil {
			return domain.Account{}, fmt.Errorf("insert account: %w", err)
		}
		return account, nil
	}

	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, account.Balance, account.ID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("update account %d: %w", account.ID, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, balance, created_at FROM accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// FindAll returns every account ordered by id.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, balance, created_at FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// FindByOwner returns the accounts owned by userID ordered by id.
func (r *PostgresRepository) FindByOwner(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, balance, created_at FROM accounts
        WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return collectAccounts(rows)
}

// Delete removes an account.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		account   domain.Account
		createdAt time.Time
	)
	if err := row.Scan(&account.ID, &account.UserID, &account.Balance, &createdAt); err != nil {
		return domain.Account{}, err
	}
	account.CreatedAt = createdAt.UTC()
	return account, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
