package loan

import (
	"context"
	"log/slog"
	"time"

	"biblioteca/internal/platform/apperr"
)

// Engine creates, returns and lists loans. Every mutation runs in its own
// transaction with the book row locked before the cliente row.
type Engine struct {
	tx     Transactor
	reads  Repository
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(tx Transactor, reads Repository, opts ...Option) *Engine {
	e := &Engine{
		tx:     tx,
		reads:  reads,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateLoan lends a copy of bookID to clienteID on behalf of issuerID.
// Checks run in order and the first failure wins: book exists, cliente exists,
// a copy is available, the cliente holds no other active loan.
func (e *Engine) CreateLoan(ctx context.Context, bookID, clienteID, issuerID int64) (Loan, error) {
	var created Loan
	err := e.tx.WithinTx(ctx, func(repo Repository) error {
		book, err := repo.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if _, err := repo.LockCliente(ctx, clienteID); err != nil {
			return err
		}

		active, err := repo.CountActiveByBook(ctx, bookID)
		if err != nil {
			return err
		}
		if available := Available(book.CantidadDisponible, active); available < 1 {
			e.logger.InfoContext(ctx, "loan rejected", "reason", "no_copies", "libro_id", bookID, "cliente_id", clienteID)
			return errNoCopies(available)
		}

		held, found, err := repo.ActiveByCliente(ctx, clienteID)
		if err != nil {
			return err
		}
		if found {
			e.logger.InfoContext(ctx, "loan rejected", "reason", "cliente_has_loan", "libro_id", bookID, "cliente_id", clienteID)
			return errClienteHasLoan(bookTitle(held))
		}

		now := e.now().UTC()
		l := Loan{
			LibroID:                 bookID,
			ClienteID:               clienteID,
			UsuarioID:               issuerID,
			FechaPrestamo:           now,
			FechaDevolucionEsperada: now.Add(Period),
			Estado:                  StateActive,
		}
		if err := repo.Insert(ctx, &l); err != nil {
			return err
		}

		created, err = repo.GetByID(ctx, l.ID)
		return err
	})
	if err != nil {
		return Loan{}, e.describeHeldLoan(ctx, clienteID, err)
	}

	e.logger.InfoContext(ctx, "loan created", "prestamo_id", created.ID, "libro_id", bookID, "cliente_id", clienteID, "usuario_id", issuerID)
	return created, nil
}

// ReturnLoan closes an active loan. Returning a loan twice is a conflict and
// leaves the stored loan unchanged.
func (e *Engine) ReturnLoan(ctx context.Context, loanID int64) (Loan, error) {
	var returned Loan
	err := e.tx.WithinTx(ctx, func(repo Repository) error {
		updated, err := repo.MarkReturned(ctx, loanID, e.now().UTC())
		if err != nil {
			return err
		}
		if !updated {
			if _, err := repo.GetByID(ctx, loanID); err != nil {
				return err
			}
			return ErrAlreadyReturned
		}

		returned, err = repo.GetByID(ctx, loanID)
		return err
	})
	if err != nil {
		return Loan{}, err
	}

	e.logger.InfoContext(ctx, "loan returned", "prestamo_id", loanID, "libro_id", returned.LibroID)
	return returned, nil
}

// ListLoans returns every loan in the given state; empty means active.
func (e *Engine) ListLoans(ctx context.Context, state string) ([]Loan, error) {
	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}
	return e.reads.ListByState(ctx, st)
}

func (e *Engine) ListActiveLoansForBook(ctx context.Context, bookID int64) ([]Loan, error) {
	return e.reads.ListActiveByBook(ctx, bookID)
}

// describeHeldLoan fills in the held book title when the active loan index,
// not the in-transaction check, rejected the insert. The failed transaction
// cannot be queried, so the title is read afterwards.
func (e *Engine) describeHeldLoan(ctx context.Context, clienteID int64, err error) error {
	ae, ok := apperr.As(err)
	if !ok || ae.Code != "CLIENTE_HAS_ACTIVE_LOAN" {
		return err
	}
	if _, named := ae.Context["libro"]; named {
		return err
	}
	held, found, lookupErr := e.reads.ActiveByCliente(ctx, clienteID)
	if lookupErr != nil || !found || bookTitle(held) == "" {
		return err
	}
	return errClienteHasLoan(bookTitle(held))
}

func bookTitle(l Loan) string {
	if l.Libro != nil {
		return l.Libro.Titulo
	}
	return ""
}
