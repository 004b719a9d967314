package role

import (
	"context"
	"errors"
	"time"

	"biblioteca/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Role, error) {
	const query = `SELECT id, name, description FROM roles ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, postgres.Classify(err, "list roles")
	}
	defer rows.Close()

	out := []Role{}
	for rows.Next() {
		var ro Role
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.Description); err != nil {
			return nil, postgres.Classify(err, "scan role")
		}
		out = append(out, ro)
	}
	return out, postgres.Classify(rows.Err(), "list roles")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE id = $1`

	var ro Role
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&ro.ID, &ro.Name, &ro.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, postgres.Classify(err, "get role")
	}
	return ro, nil
}
