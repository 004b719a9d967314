package user

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

const selectUser = `
	SELECT u.id, u.username, u.password, u.email, u.role_id, r.name, r.description, u.created_at
	FROM users u
	JOIN roles r ON r.id = u.role_id
`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.RoleID, &u.RoleName, &u.RoleDescription, &u.CreatedAt)
	return u, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectUser+` ORDER BY u.id`)
	if err != nil {
		return nil, postgres.Classify(err, "list users")
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, postgres.Classify(err, "scan user")
		}
		out = append(out, u)
	}
	return out, postgres.Classify(rows.Err(), "list users")
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	u, err := scanUser(r.db.QueryRow(timeoutCtx, selectUser+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, postgres.Classify(err, "get user")
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (User, error) {
	return r.getOne(ctx, ` WHERE u.id = $1`, id)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.getOne(ctx, ` WHERE u.username = $1`, username)
}

func (r *PostgresRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&found); err != nil {
		return false, postgres.Classify(err, "check user uniqueness")
	}
	return found, nil
}

func (r *PostgresRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`, username, excludeID)
}

func (r *PostgresRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeID)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (username, password, email, role_id)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Username, u.PasswordHash, u.Email, u.RoleID).Scan(&u.ID, &u.CreatedAt)
	return postgres.Classify(err, "create user")
}

func (r *PostgresRepo) Update(ctx context.Context, u *User) error {
	const query = `
	UPDATE users SET username = $2, password = $3, email = $4, role_id = $5
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, u.ID, u.Username, u.PasswordHash, u.Email, u.RoleID)
	if err != nil {
		return postgres.Classify(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return postgres.Classify(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
