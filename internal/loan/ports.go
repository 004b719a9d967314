package loan

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=loan

// Repository reads and writes loans and the parent rows they guard. A
// Repository obtained from Transactor.WithinTx is bound to that transaction.
type Repository interface {
	// LockBook and LockCliente take a row lock held until the transaction ends.
	LockBook(ctx context.Context, id int64) (LockedBook, error)
	LockCliente(ctx context.Context, id int64) (LockedCliente, error)

	// BookStock returns the declared stock and false when the book is missing.
	BookStock(ctx context.Context, bookID int64) (int, bool, error)
	BookStocks(ctx context.Context, bookIDs []int64) (map[int64]int, error)
	ClienteExists(ctx context.Context, clienteID int64) (bool, error)
	CountActiveByBook(ctx context.Context, bookID int64) (int, error)
	CountActiveByBooks(ctx context.Context, bookIDs []int64) (map[int64]int, error)
	CountActiveByCliente(ctx context.Context, clienteID int64) (int, error)

	// FirstActiveByBook returns the oldest active loan of the book with its cliente.
	FirstActiveByBook(ctx context.Context, bookID int64) (Loan, bool, error)
	// ActiveByCliente returns the active loan of the cliente with its book.
	ActiveByCliente(ctx context.Context, clienteID int64) (Loan, bool, error)

	Insert(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id int64) (Loan, error)
	// MarkReturned closes the loan only if it is still active.
	MarkReturned(ctx context.Context, id int64, at time.Time) (bool, error)
	ListByState(ctx context.Context, state State) ([]Loan, error)
	ListActiveByBook(ctx context.Context, bookID int64) ([]Loan, error)

	DeleteReturnedByBook(ctx context.Context, bookID int64) (int64, error)
	DeleteByCliente(ctx context.Context, clienteID int64) (int64, error)
	DeleteBook(ctx context.Context, id int64) error
	DeleteCliente(ctx context.Context, id int64) error
}

// Transactor runs fn with a Repository bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
