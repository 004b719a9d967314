package book

import (
	"context"
	"strings"

	"biblioteca/internal/platform/apperr"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	avail   AvailabilityCalculator
	deleter Deleter
}

func NewService(repo Repository, avail AvailabilityCalculator, deleter Deleter) *Service {
	return &Service{repo: repo, avail: avail, deleter: deleter}
}

// List returns every book with its real availability.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	avail, err := s.avail.RealAvailabilities(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].DisponibilidadReal = avail[books[i].ID]
	}
	return books, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	return s.withAvailability(ctx, b)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	b := &Book{
		Titulo:             strings.TrimSpace(in.Titulo),
		Autor:              strings.TrimSpace(in.Autor),
		Editorial:          trimmed(in.Editorial),
		AnioPublicacion:    in.AnioPublicacion,
		ISBN:               strings.TrimSpace(in.ISBN),
		CantidadDisponible: in.CantidadDisponible,
	}
	if b.Titulo == "" || b.Autor == "" || b.ISBN == "" {
		return Book{}, apperr.Validation("VALIDATION_ERROR", "titulo, autor and isbn are required")
	}
	if b.CantidadDisponible < 0 {
		return Book{}, ErrNegativeStock
	}
	if err := s.ensureISBNFree(ctx, b.ISBN, 0); err != nil {
		return Book{}, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, mapUniqueViolation(err)
	}
	// nothing can be on loan yet
	b.DisponibilidadReal = b.CantidadDisponible
	return *b, nil
}

// Update changes the given fields. A new stock below the number of active
// loans is refused; the check and the write happen under the book row lock.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	in.Titulo, in.Autor, in.Editorial, in.ISBN = trimmed(in.Titulo), trimmed(in.Autor), trimmed(in.Editorial), trimmed(in.ISBN)
	if (in.Titulo != nil && *in.Titulo == "") || (in.Autor != nil && *in.Autor == "") || (in.ISBN != nil && *in.ISBN == "") {
		return Book{}, apperr.Validation("VALIDATION_ERROR", "titulo, autor and isbn cannot be empty")
	}
	if in.CantidadDisponible != nil && *in.CantidadDisponible < 0 {
		return Book{}, ErrNegativeStock
	}
	if in.ISBN != nil {
		if err := s.ensureISBNFree(ctx, *in.ISBN, id); err != nil {
			return Book{}, err
		}
	}

	b, err := s.repo.Update(ctx, id, func(current *Book, activeLoans int) error {
		if in.CantidadDisponible != nil && *in.CantidadDisponible < activeLoans {
			return errStockBelowActive(activeLoans, *in.CantidadDisponible)
		}
		in.apply(current)
		return nil
	})
	if err != nil {
		return Book{}, mapUniqueViolation(err)
	}
	return s.withAvailability(ctx, b)
}

// Delete removes the book and its returned loans; active loans block it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.deleter.DeleteBook(ctx, id)
}

func (s *Service) withAvailability(ctx context.Context, b Book) (Book, error) {
	n, err := s.avail.RealAvailability(ctx, b.ID)
	if err != nil {
		return Book{}, err
	}
	b.DisponibilidadReal = n
	return b, nil
}

func (s *Service) ensureISBNFree(ctx context.Context, isbn string, excludeID int64) error {
	taken, err := s.repo.ISBNTaken(ctx, isbn, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrISBNTaken.With("isbn", isbn)
	}
	return nil
}

func mapUniqueViolation(err error) error {
	ae, ok := apperr.As(err)
	if ok && ae.Code == "DUPLICATE_VALUE" && ae.Context["constraint"] == isbnConstraint {
		return ErrISBNTaken
	}
	return err
}
