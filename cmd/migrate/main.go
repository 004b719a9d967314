package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"biblioteca/internal/config"
	"biblioteca/internal/platform/postgres"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, redo, reset, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var args []string
	if *command == "create" {
		if *name == "" {
			logger.Error("name is required for 'create' command")
			os.Exit(2)
		}
		args = []string{*name, "sql"}
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{DSN: cfg.DatabaseDSN, MaxConns: 1})
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	dir := cfg.MigrationsDir
	if err := postgres.Migrate(ctx, pool, dir, *command, args...); err != nil {
		logger.Error("migration failed", "command", *command, "dir", dir, "error", err)
		os.Exit(1)
	}
	logger.Info("migration finished", "command", *command, "dir", dir)
}
