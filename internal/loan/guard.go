package loan

import (
	"context"
	"log/slog"

	"biblioteca/internal/platform/apperr"
)

// Guard decides whether books and clientes may be deleted and performs the
// deletion together with the cleanup of their loan history.
type Guard struct {
	tx     Transactor
	reads  Repository
	logger *slog.Logger
}

func NewGuard(tx Transactor, reads Repository, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{tx: tx, reads: reads, logger: logger}
}

func errBookHasActiveLoans(cliente string, count int) error {
	return apperr.Conflict("BOOK_HAS_ACTIVE_LOANS", "book cannot be deleted while it is on loan").
		With("cliente", cliente).
		With("prestamos_activos", count)
}

func errClienteHasActiveLoans(titulo string) error {
	return apperr.Conflict("CLIENTE_HAS_ACTIVE_LOANS", "cliente cannot be deleted while holding a book").
		With("libro", titulo)
}

func errStillActive(count int) error {
	return apperr.Consistency("active loans appeared during deletion").
		With("prestamos_activos", count)
}

// CanDeleteBook reports why the book cannot be deleted, or nil.
func (g *Guard) CanDeleteBook(ctx context.Context, bookID int64) error {
	if _, found, err := g.reads.BookStock(ctx, bookID); err != nil {
		return err
	} else if !found {
		return ErrBookNotFound
	}
	return bookDeletable(ctx, g.reads, bookID)
}

// DeleteBook removes the book and its returned loans in one transaction.
func (g *Guard) DeleteBook(ctx context.Context, bookID int64) error {
	err := g.tx.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.LockBook(ctx, bookID); err != nil {
			return err
		}
		if err := bookDeletable(ctx, repo, bookID); err != nil {
			return err
		}

		removed, err := repo.DeleteReturnedByBook(ctx, bookID)
		if err != nil {
			return err
		}

		remaining, err := repo.CountActiveByBook(ctx, bookID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return errStillActive(remaining)
		}

		if err := repo.DeleteBook(ctx, bookID); err != nil {
			return err
		}
		g.logger.InfoContext(ctx, "book deleted", "libro_id", bookID, "prestamos_eliminados", removed)
		return nil
	})
	if apperr.Is(err, apperr.KindConsistency) {
		g.logger.ErrorContext(ctx, "book deletion rolled back", "libro_id", bookID, "error", err)
	}
	return err
}

// CanDeleteCliente reports why the cliente cannot be deleted, or nil.
func (g *Guard) CanDeleteCliente(ctx context.Context, clienteID int64) error {
	if found, err := g.reads.ClienteExists(ctx, clienteID); err != nil {
		return err
	} else if !found {
		return ErrClienteNotFound
	}
	return clienteDeletable(ctx, g.reads, clienteID)
}

// DeleteCliente removes the cliente and all of its loans in one transaction.
func (g *Guard) DeleteCliente(ctx context.Context, clienteID int64) error {
	err := g.tx.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.LockCliente(ctx, clienteID); err != nil {
			return err
		}
		if err := clienteDeletable(ctx, repo, clienteID); err != nil {
			return err
		}

		removed, err := repo.DeleteByCliente(ctx, clienteID)
		if err != nil {
			return err
		}

		remaining, err := repo.CountActiveByCliente(ctx, clienteID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return errStillActive(remaining)
		}

		if err := repo.DeleteCliente(ctx, clienteID); err != nil {
			return err
		}
		g.logger.InfoContext(ctx, "cliente deleted", "cliente_id", clienteID, "prestamos_eliminados", removed)
		return nil
	})
	if apperr.Is(err, apperr.KindConsistency) {
		g.logger.ErrorContext(ctx, "cliente deletion rolled back", "cliente_id", clienteID, "error", err)
	}
	return err
}

func bookDeletable(ctx context.Context, repo Repository, bookID int64) error {
	first, found, err := repo.FirstActiveByBook(ctx, bookID)
	if err != nil || !found {
		return err
	}
	count, err := repo.CountActiveByBook(ctx, bookID)
	if err != nil {
		return err
	}
	name := ""
	if first.Cliente != nil {
		name = first.Cliente.Nombre
	}
	return errBookHasActiveLoans(name, count)
}

func clienteDeletable(ctx context.Context, repo Repository, clienteID int64) error {
	held, found, err := repo.ActiveByCliente(ctx, clienteID)
	if err != nil || !found {
		return err
	}
	return errClienteHasActiveLoans(bookTitle(held))
}
