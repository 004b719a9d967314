package report

import (
	"context"
	"log/slog"

	"biblioteca/internal/loan"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Loans returns the loans matching search and estado, newest first.
func (s *Service) Loans(ctx context.Context, search, estado string) ([]loan.Loan, error) {
	f, err := NewFilter(search, estado)
	if err != nil {
		return nil, err
	}
	loans, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "loan report", "search", f.Search, "estado", estado, "results", len(loans))
	return loans, nil
}
