package book

import (
	"context"
	"errors"
	"time"

	"biblioteca/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db          *pgxpool.Pool
	timeout     time.Duration
	lockTimeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout, lockTimeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout, lockTimeout: lockTimeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectBook = `
	SELECT id, titulo, autor, editorial, anio_publicacion, isbn, cantidad_disponible, created_at
	FROM libros
`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Titulo, &b.Autor, &b.Editorial, &b.AnioPublicacion, &b.ISBN, &b.CantidadDisponible, &b.CreatedAt)
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectBook+` ORDER BY id`)
	if err != nil {
		return nil, postgres.Classify(err, "list books")
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, postgres.Classify(err, "scan book")
		}
		out = append(out, b)
	}
	return out, postgres.Classify(rows.Err(), "list books")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, selectBook+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, postgres.Classify(err, "get book")
	}
	return b, nil
}

func (r *PostgresRepo) ISBNTaken(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	var taken bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM libros WHERE isbn = $1 AND id <> $2)`, isbn, excludeID,
	).Scan(&taken)
	return taken, postgres.Classify(err, "check isbn")
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO libros (titulo, autor, editorial, anio_publicacion, isbn, cantidad_disponible)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Titulo, b.Autor, b.Editorial, b.AnioPublicacion, b.ISBN, b.CantidadDisponible,
	).Scan(&b.ID, &b.CreatedAt)
	return postgres.Classify(err, "create book")
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, apply func(current *Book, activeLoans int) error) (Book, error) {
	var updated Book
	err := postgres.WithTx(ctx, r.db, r.lockTimeout, func(tx pgx.Tx) error {
		timeoutCtx, cancel := r.withTimeout(ctx)
		defer cancel()

		b, err := scanBook(tx.QueryRow(timeoutCtx, selectBook+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var active int
		err = tx.QueryRow(timeoutCtx,
			`SELECT COUNT(*) FROM prestamos WHERE libro_id = $1 AND estado = 'activo'`, id,
		).Scan(&active)
		if err != nil {
			return err
		}

		if err := apply(&b, active); err != nil {
			return err
		}

		_, err = tx.Exec(timeoutCtx, `
			UPDATE libros
			SET titulo = $2, autor = $3, editorial = $4, anio_publicacion = $5, isbn = $6, cantidad_disponible = $7
			WHERE id = $1`,
			b.ID, b.Titulo, b.Autor, b.Editorial, b.AnioPublicacion, b.ISBN, b.CantidadDisponible,
		)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return Book{}, err
	}
	return updated, nil
}
