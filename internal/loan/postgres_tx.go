package loan

import (
	"context"
	"time"

	"biblioteca/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

// PostgresTransactor opens one database transaction per WithinTx call.
type PostgresTransactor struct {
	db           postgres.TxBeginner
	lockTimeout  time.Duration
	queryTimeout time.Duration
}

func NewPostgresTransactor(db postgres.TxBeginner, lockTimeout, queryTimeout time.Duration) *PostgresTransactor {
	return &PostgresTransactor{db: db, lockTimeout: lockTimeout, queryTimeout: queryTimeout}
}

func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	return postgres.WithTx(ctx, t.db, t.lockTimeout, func(tx pgx.Tx) error {
		return fn(NewPostgresRepo(tx, t.queryTimeout))
	})
}
