// Package core assembles the user directory and the account ledger on top of
// the configured storage backends. Both front ends share it.
package core

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/corebank/corebank/internal/config"
	"github.com/corebank/corebank/internal/directory"
	"github.com/corebank/corebank/internal/ledger"
	"github.com/corebank/corebank/internal/notification"
)

// Core holds the two collaborating services.
type Core struct {
	Users    *directory.Service
	Accounts *ledger.Service
}

// New wires the services. A nil db selects in-memory repositories; a nil
// cache disables the Redis read-through layer.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) *Core {
	var (
		userRepo    directory.Repository
		accountRepo ledger.Repository
	)
	if db != nil {
		userRepo = directory.NewPostgresRepository(db)
		accountRepo = ledger.NewPostgresRepository(db)
	} else {
		userRepo = directory.NewMemoryRepository()
		accountRepo = ledger.NewMemoryRepository()
	}
	if cache != nil {
		userRepo = directory.NewCachedRepository(userRepo, cache, cfg.CacheTTL, logger)
		accountRepo = ledger.NewCachedRepository(accountRepo, cache, cfg.CacheTTL, logger)
	}

	accounts := ledger.NewService(accountRepo, userRepo, ledger.Settings{
		DefaultBalance:     cfg.DefaultAccountAmount,
		TransferCommission: cfg.TransferCommission,
	}, notification.NewLoggerNotifier(logger), logger)
	users := directory.NewService(userRepo, accounts, logger)

	return &Core{Users: users, Accounts: accounts}
}
