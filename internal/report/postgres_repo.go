package report

import (
	"context"
	"time"

	"biblioteca/internal/loan"
	"biblioteca/internal/platform/apperr"
	"biblioteca/internal/platform/postgres"
)

type PostgresRepo struct {
	db      postgres.Querier
	timeout time.Duration
}

func NewPostgresRepo(db postgres.Querier, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) Search(ctx context.Context, f Filter) ([]loan.Loan, error) {
	query, args, err := buildSearch(f)
	if err != nil {
		return nil, apperr.Wrap(err, "build report query")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, postgres.Classify(err, "search loans")
	}
	defer rows.Close()

	out := []loan.Loan{}
	for rows.Next() {
		l, err := loan.ScanLoan(rows)
		if err != nil {
			return nil, postgres.Classify(err, "scan loan")
		}
		out = append(out, l)
	}
	return out, postgres.Classify(rows.Err(), "search loans")
}
