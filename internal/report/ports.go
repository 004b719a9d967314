package report

import (
	"context"

	"biblioteca/internal/loan"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=report

type Repository interface {
	Search(ctx context.Context, f Filter) ([]loan.Loan, error)
}
