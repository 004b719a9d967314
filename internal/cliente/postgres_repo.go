package cliente

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

const selectCliente = `
	SELECT id, nombre, apellido, correo, telefono, numero_identificacion, created_at
	FROM clientes
`

func scanCliente(row pgx.Row) (Cliente, error) {
	var c Cliente
	err := row.Scan(&c.ID, &c.Nombre, &c.Apellido, &c.Correo, &c.Telefono, &c.NumeroIdentificacion, &c.CreatedAt)
	return c, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Cliente, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectCliente+` ORDER BY id`)
	if err != nil {
		return nil, postgres.Classify(err, "list clientes")
	}
	defer rows.Close()

	out := []Cliente{}
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, postgres.Classify(err, "scan cliente")
		}
		out = append(out, c)
	}
	return out, postgres.Classify(rows.Err(), "list clientes")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Cliente, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := scanCliente(r.db.QueryRow(timeoutCtx, selectCliente+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cliente{}, ErrNotFound
		}
		return Cliente{}, postgres.Classify(err, "get cliente")
	}
	return c, nil
}

func (r *PostgresRepo) NumeroTaken(ctx context.Context, numero string, excludeID int64) (bool, error) {
	var taken bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM clientes WHERE numero_identificacion = $1 AND id <> $2)`, numero, excludeID,
	).Scan(&taken)
	return taken, postgres.Classify(err, "check numero_identificacion")
}

func (r *PostgresRepo) Create(ctx context.Context, c *Cliente) error {
	const query = `
	INSERT INTO clientes (nombre, apellido, correo, telefono, numero_identificacion)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		c.Nombre, c.Apellido, c.Correo, c.Telefono, c.NumeroIdentificacion,
	).Scan(&c.ID, &c.CreatedAt)
	return postgres.Classify(err, "create cliente")
}

func (r *PostgresRepo) Update(ctx context.Context, c *Cliente) error {
	const query = `
	UPDATE clientes
	SET nombre = $2, apellido = $3, correo = $4, telefono = $5, numero_identificacion = $6
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query,
		c.ID, c.Nombre, c.Apellido, c.Correo, c.Telefono, c.NumeroIdentificacion,
	)
	if err != nil {
		return postgres.Classify(err, "update cliente")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
