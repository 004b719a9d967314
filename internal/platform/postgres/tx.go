package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a read-committed transaction. The transaction is rolled
// back when fn returns an error or panics, and committed otherwise. A positive
// lockTimeout bounds how long any statement may wait for a row lock.
func WithTx(ctx context.Context, db TxBeginner, lockTimeout time.Duration, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return Classify(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if lockTimeout > 0 {
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", lockTimeoutSetting(lockTimeout)); err != nil {
			return Classify(err, "set lock timeout")
		}
	}

	if err := fn(tx); err != nil {
		return Classify(err, "transaction")
	}

	if err := tx.Commit(ctx); err != nil {
		return Classify(err, "commit transaction")
	}
	return nil
}

func lockTimeoutSetting(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return fmt.Sprintf("%dms", ms)
}
