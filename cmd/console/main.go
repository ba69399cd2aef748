package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/corebank/internal/config"
	"github.com/corebank/corebank/internal/console"
	"github.com/corebank/corebank/internal/core"
	"github.com/corebank/corebank/internal/infra"
	"github.com/corebank/corebank/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the session.
	logger := logging.NewWriter(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := infra.Migrate(ctx, db); err != nil {
			logger.Error("migrate schema", "error", err)
			os.Exit(1)
		}
	}

	bank := core.New(cfg, db, nil, logger)
	if err := console.NewListener(os.Stdin, os.Stdout, bank, logger).Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("console stopped", "error", err)
		os.Exit(1)
	}
}
