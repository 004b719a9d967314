package loan

import (
	"context"
)

// Available is the number of copies that can still be lent.
func Available(stock, active int) int {
	return max(0, stock-active)
}

// Availability computes real availability from the store on every call.
type Availability struct {
	repo Repository
}

func NewAvailability(repo Repository) *Availability {
	return &Availability{repo: repo}
}

// RealAvailability returns max(0, stock - active loans). A missing book has
// nothing available and is not an error.
func (a *Availability) RealAvailability(ctx context.Context, bookID int64) (int, error) {
	return realAvailability(ctx, a.repo, bookID)
}

// RealAvailabilities is RealAvailability for many books at once. Missing
// books map to 0.
func (a *Availability) RealAvailabilities(ctx context.Context, bookIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	stocks, err := a.repo.BookStocks(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	active, err := a.repo.CountActiveByBooks(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range bookIDs {
		stock, ok := stocks[id]
		if !ok {
			out[id] = 0
			continue
		}
		out[id] = Available(stock, active[id])
	}
	return out, nil
}

func realAvailability(ctx context.Context, repo Repository, bookID int64) (int, error) {
	stock, found, err := repo.BookStock(ctx, bookID)
	if err != nil || !found {
		return 0, err
	}
	active, err := repo.CountActiveByBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return Available(stock, active), nil
}
