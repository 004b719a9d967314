// Package book manages the libros catalog. Availability and deletion rules
// are delegated to the loan package through small interfaces.
package book

import (
	"strings"
	"time"

	"biblioteca/internal/platform/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("BOOK_NOT_FOUND", "book not found")
	ErrISBNTaken     = apperr.Conflict("DUPLICATE_ISBN", "a book with this isbn already exists")
	ErrNegativeStock = apperr.Validation("NEGATIVE_STOCK", "cantidad_disponible cannot be negative")
)

func errStockBelowActive(active, requested int) error {
	return apperr.Conflict("STOCK_BELOW_ACTIVE_LOANS", "cantidad_disponible cannot be lower than the active loans").
		With("prestamos_activos", active).
		With("cantidad_solicitada", requested)
}

// isbnConstraint is the unique constraint on libros.isbn.
const isbnConstraint = "libros_isbn_key"

type Book struct {
	ID                 int64     `json:"id"`
	Titulo             string    `json:"titulo"`
	Autor              string    `json:"autor"`
	Editorial          *string   `json:"editorial"`
	AnioPublicacion    *int      `json:"anio_publicacion"`
	ISBN               string    `json:"isbn"`
	CantidadDisponible int       `json:"cantidad_disponible"`
	CreatedAt          time.Time `json:"created_at"`

	// DisponibilidadReal is computed on read and never stored.
	DisponibilidadReal int `json:"disponibilidad_real"`
}

type CreateInput struct {
	Titulo             string
	Autor              string
	Editorial          *string
	AnioPublicacion    *int
	ISBN               string
	CantidadDisponible int
}

// UpdateInput holds the fields to change; nil fields keep their value.
type UpdateInput struct {
	Titulo             *string
	Autor              *string
	Editorial          *string
	AnioPublicacion    *int
	ISBN               *string
	CantidadDisponible *int
}

func (in UpdateInput) apply(b *Book) {
	if in.Titulo != nil {
		b.Titulo = *in.Titulo
	}
	if in.Autor != nil {
		b.Autor = *in.Autor
	}
	if in.Editorial != nil {
		b.Editorial = in.Editorial
	}
	if in.AnioPublicacion != nil {
		b.AnioPublicacion = in.AnioPublicacion
	}
	if in.ISBN != nil {
		b.ISBN = *in.ISBN
	}
	if in.CantidadDisponible != nil {
		b.CantidadDisponible = *in.CantidadDisponible
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
