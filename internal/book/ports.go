package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	ISBNTaken(ctx context.Context, isbn string, excludeID int64) (bool, error)
	Create(ctx context.Context, b *Book) error
	// Update locks the book row, passes the stored book and its active loan
	// count to apply, and persists the result unless apply fails.
	Update(ctx context.Context, id int64, apply func(current *Book, activeLoans int) error) (Book, error)
}

// AvailabilityCalculator reports copies that can still be lent.
type AvailabilityCalculator interface {
	RealAvailability(ctx context.Context, bookID int64) (int, error)
	RealAvailabilities(ctx context.Context, bookIDs []int64) (map[int64]int, error)
}

// Deleter removes a book once no loan holds it.
type Deleter interface {
	DeleteBook(ctx context.Context, bookID int64) error
}
