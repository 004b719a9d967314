package loan

import (
	"context"
	"errors"
	"time"

	"biblioteca/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

// activeClienteIndex is the partial unique index allowing one active loan per cliente.
const activeClienteIndex = "prestamos_cliente_activo_uidx"

// SelectList is the column list read by ScanLoan. It expects prestamos p joined
// with libros l, clientes c and users u.
const SelectList = `p.id, p.libro_id, p.cliente_id, p.usuario_id, p.fecha_prestamo,
	p.fecha_devolucion_esperada, p.fecha_devolucion_real, p.estado,
	l.titulo, l.autor, l.editorial, l.isbn,
	c.nombre, c.apellido, c.correo, c.numero_identificacion,
	u.username, u.email`

const selectLoans = `SELECT ` + SelectList + `
	FROM prestamos p
	JOIN libros l ON l.id = p.libro_id
	JOIN clientes c ON c.id = p.cliente_id
	JOIN users u ON u.id = p.usuario_id`

// ScanLoan reads one row selected with SelectList.
func ScanLoan(row pgx.Row) (Loan, error) {
	var (
		l         Loan
		libro     BookRef
		cliente   ClienteRef
		usuario   UserRef
		editorial *string
	)
	err := row.Scan(
		&l.ID, &l.LibroID, &l.ClienteID, &l.UsuarioID, &l.FechaPrestamo,
		&l.FechaDevolucionEsperada, &l.FechaDevolucionReal, &l.Estado,
		&libro.Titulo, &libro.Autor, &editorial, &libro.ISBN,
		&cliente.Nombre, &cliente.Apellido, &cliente.Correo, &cliente.NumeroIdentificacion,
		&usuario.Username, &usuario.Email,
	)
	if err != nil {
		return Loan{}, err
	}
	if editorial != nil {
		libro.Editorial = *editorial
	}
	libro.ID, cliente.ID, usuario.ID = l.LibroID, l.ClienteID, l.UsuarioID
	l.Libro, l.Cliente, l.Usuario = &libro, &cliente, &usuario
	return l, nil
}

// PostgresRepo implements Repository on a pool or on a single transaction.
type PostgresRepo struct {
	db      postgres.Querier
	timeout time.Duration
}

func NewPostgresRepo(db postgres.Querier, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) LockBook(ctx context.Context, id int64) (LockedBook, error) {
	const query = `SELECT id, titulo, cantidad_disponible FROM libros WHERE id = $1 FOR UPDATE`

	var b LockedBook
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&b.ID, &b.Titulo, &b.CantidadDisponible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LockedBook{}, ErrBookNotFound
		}
		return LockedBook{}, postgres.Classify(err, "lock book")
	}
	return b, nil
}

func (r *PostgresRepo) LockCliente(ctx context.Context, id int64) (LockedCliente, error) {
	const query = `SELECT id, nombre, apellido FROM clientes WHERE id = $1 FOR UPDATE`

	var c LockedCliente
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&c.ID, &c.Nombre, &c.Apellido)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LockedCliente{}, ErrClienteNotFound
		}
		return LockedCliente{}, postgres.Classify(err, "lock cliente")
	}
	return c, nil
}

func (r *PostgresRepo) BookStock(ctx context.Context, bookID int64) (int, bool, error) {
	var stock int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT cantidad_disponible FROM libros WHERE id = $1`, bookID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, postgres.Classify(err, "read book stock")
	}
	return stock, true, nil
}

func (r *PostgresRepo) BookStocks(ctx context.Context, bookIDs []int64) (map[int64]int, error) {
	return r.countMap(ctx, `SELECT id, cantidad_disponible FROM libros WHERE id = ANY($1)`, bookIDs)
}

func (r *PostgresRepo) ClienteExists(ctx context.Context, clienteID int64) (bool, error) {
	var found bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM clientes WHERE id = $1)`, clienteID).Scan(&found)
	return found, postgres.Classify(err, "check cliente")
}

func (r *PostgresRepo) count(ctx context.Context, query string, arg any) (int, error) {
	var n int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&n); err != nil {
		return 0, postgres.Classify(err, "count loans")
	}
	return n, nil
}

func (r *PostgresRepo) CountActiveByBook(ctx context.Context, bookID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM prestamos WHERE libro_id = $1 AND estado = 'activo'`, bookID)
}

func (r *PostgresRepo) CountActiveByCliente(ctx context.Context, clienteID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM prestamos WHERE cliente_id = $1 AND estado = 'activo'`, clienteID)
}

func (r *PostgresRepo) CountActiveByBooks(ctx context.Context, bookIDs []int64) (map[int64]int, error) {
	return r.countMap(ctx, `
		SELECT libro_id, COUNT(*) FROM prestamos
		WHERE estado = 'activo' AND libro_id = ANY($1)
		GROUP BY libro_id`, bookIDs)
}

func (r *PostgresRepo) countMap(ctx context.Context, query string, ids []int64) (map[int64]int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ids)
	if err != nil {
		return nil, postgres.Classify(err, "count by book")
	}
	defer rows.Close()

	out := make(map[int64]int, len(ids))
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, postgres.Classify(err, "scan count")
		}
		out[id] = n
	}
	return out, postgres.Classify(rows.Err(), "count by book")
}

func (r *PostgresRepo) first(ctx context.Context, where string, arg any) (Loan, bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := ScanLoan(r.db.QueryRow(timeoutCtx, selectLoans+where+` ORDER BY p.fecha_prestamo, p.id LIMIT 1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, false, nil
		}
		return Loan{}, false, postgres.Classify(err, "find active loan")
	}
	return l, true, nil
}

func (r *PostgresRepo) FirstActiveByBook(ctx context.Context, bookID int64) (Loan, bool, error) {
	return r.first(ctx, ` WHERE p.libro_id = $1 AND p.estado = 'activo'`, bookID)
}

func (r *PostgresRepo) ActiveByCliente(ctx context.Context, clienteID int64) (Loan, bool, error) {
	return r.first(ctx, ` WHERE p.cliente_id = $1 AND p.estado = 'activo'`, clienteID)
}

func (r *PostgresRepo) Insert(ctx context.Context, l *Loan) error {
	const query = `
	INSERT INTO prestamos (libro_id, cliente_id, usuario_id, fecha_prestamo, fecha_devolucion_esperada, estado)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		l.LibroID, l.ClienteID, l.UsuarioID, l.FechaPrestamo, l.FechaDevolucionEsperada, l.Estado,
	).Scan(&l.ID)
	if postgres.IsUniqueViolation(err, activeClienteIndex) {
		return errClienteHasLoan("")
	}
	return postgres.Classify(err, "insert loan")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := ScanLoan(r.db.QueryRow(timeoutCtx, selectLoans+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, postgres.Classify(err, "get loan")
	}
	return l, nil
}

func (r *PostgresRepo) MarkReturned(ctx context.Context, id int64, at time.Time) (bool, error) {
	const query = `
	UPDATE prestamos SET estado = 'devuelto', fecha_devolucion_real = $2
	WHERE id = $1 AND estado = 'activo'
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id, at)
	if err != nil {
		return false, postgres.Classify(err, "return loan")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepo) list(ctx context.Context, where string, arg any) ([]Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectLoans+where+` ORDER BY p.fecha_prestamo, p.id`, arg)
	if err != nil {
		return nil, postgres.Classify(err, "list loans")
	}
	defer rows.Close()

	out := []Loan{}
	for rows.Next() {
		l, err := ScanLoan(rows)
		if err != nil {
			return nil, postgres.Classify(err, "scan loan")
		}
		out = append(out, l)
	}
	return out, postgres.Classify(rows.Err(), "list loans")
}

func (r *PostgresRepo) ListByState(ctx context.Context, state State) ([]Loan, error) {
	return r.list(ctx, ` WHERE p.estado = $1`, state)
}

func (r *PostgresRepo) ListActiveByBook(ctx context.Context, bookID int64) ([]Loan, error) {
	return r.list(ctx, ` WHERE p.libro_id = $1 AND p.estado = 'activo'`, bookID)
}

func (r *PostgresRepo) exec(ctx context.Context, op, query string, arg any) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, arg)
	if err != nil {
		return 0, postgres.Classify(err, op)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) DeleteReturnedByBook(ctx context.Context, bookID int64) (int64, error) {
	return r.exec(ctx, "delete returned loans", `DELETE FROM prestamos WHERE libro_id = $1 AND estado = 'devuelto'`, bookID)
}

func (r *PostgresRepo) DeleteByCliente(ctx context.Context, clienteID int64) (int64, error) {
	return r.exec(ctx, "delete cliente loans", `DELETE FROM prestamos WHERE cliente_id = $1`, clienteID)
}

func (r *PostgresRepo) DeleteBook(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, "delete book", `DELETE FROM libros WHERE id = $1`, id)
	if err == nil && n == 0 {
		return ErrBookNotFound
	}
	return err
}

func (r *PostgresRepo) DeleteCliente(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, "delete cliente", `DELETE FROM clientes WHERE id = $1`, id)
	if err == nil && n == 0 {
		return ErrClienteNotFound
	}
	return err
}
