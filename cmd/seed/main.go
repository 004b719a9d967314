// Command seed inserts the three roles and a bootstrap admin account. Running
// it twice is harmless.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"biblioteca/internal/config"
	"biblioteca/internal/platform/crypto"
	"biblioteca/internal/platform/postgres"
	"biblioteca/internal/role"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var roles = []struct {
	name        string
	description string
}{
	{role.NameAdmin, "Administrador del sistema"},
	{role.NameGestor, "Gestiona libros, clientes y préstamos"},
	{role.NameConsulta, "Acceso de solo lectura"},
}

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		slog.Error("SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}
	username := getenv("SEED_ADMIN_USERNAME", "admin")
	email := getenv("SEED_ADMIN_EMAIL", "admin@biblioteca.local")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{DSN: cfg.DatabaseDSN, MaxConns: 1})
	if err != nil {
		slog.Error("connect", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed(ctx, pool, username, email, password); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "admin", username)
}

func seed(ctx context.Context, pool *pgxpool.Pool, username, email, password string) error {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return postgres.WithTx(ctx, pool, 0, func(tx pgx.Tx) error {
		for _, r := range roles {
			if _, err := tx.Exec(ctx,
				`INSERT INTO roles (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				r.name, r.description,
			); err != nil {
				return fmt.Errorf("insert role %s: %w", r.name, err)
			}
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO users (username, password, email, role_id)
			SELECT $1, $2, $3, id FROM roles WHERE name = $4
			ON CONFLICT (username) DO NOTHING`,
			username, hash, email, role.NameAdmin,
		)
		if err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}
		if tag.RowsAffected() == 0 {
			slog.Info("admin already present", "username", username)
		}
		return nil
	})
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
