package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/corebank/internal/domain"
)

const uniqueViolation = "23505"

// Repository persists users. Returned users never carry AccountIDs; the
// service derives them from the ledger.
type Repository interface {
	// Save inserts the user when its ID is zero, assigning a fresh ID, and
	// updates it otherwise. A duplicate login yields domain.ErrLoginConflict.
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts or updates a user.
func (r *PostgresRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	user.AccountIDs = nil
	if user.ID == 0 {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
		row := r.db.QueryRow(ctx, `INSERT INTO users (login, created_at) VALUES ($1, $2) RETURNING id`,
			user.Login, user.CreatedAt.UTC())
		if err := row.Scan(&user.ID); err != nil {
			return domain.User{}, mapWriteError(err)
		}
		return user, nil
	}

	cmd, err := r.db.Exec(ctx, `UPDATE users SET login = $1 WHERE id = $2`, user.Login, user.ID)
	if err != nil {
		return domain.User{}, mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return r.findOne(ctx, `SELECT id, login, created_at FROM users WHERE id = $1`, id)
}

// FindByLogin fetches a user by login.
func (r *PostgresRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	return r.findOne(ctx, `SELECT id, login, created_at FROM users WHERE login = $1`, login)
}

// FindAll returns every user ordered by id.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, login, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user      domain.User
		createdAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Login, &createdAt); err != nil {
		return domain.User{}, err
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrLoginConflict
	}
	return fmt.Errorf("write user: %w", err)
}
