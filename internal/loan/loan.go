// Package loan owns the loan lifecycle and the rules that keep book availability,
// active loans and deletability consistent.
package loan

import (
	"strings"
	"time"

	"biblioteca/internal/platform/apperr"
)

type State string

const (
	StateActive   State = "activo"
	StateReturned State = "devuelto"
)

// Period is the time a cliente may keep a book.
const Period = 7 * 24 * time.Hour

// ParseState parses a state filter. An empty value selects active loans.
func ParseState(s string) (State, error) {
	switch State(strings.TrimSpace(s)) {
	case "", StateActive:
		return StateActive, nil
	case StateReturned:
		return StateReturned, nil
	}
	return "", apperr.Validation("INVALID_STATE", "estado must be activo or devuelto").With("estado", s)
}

type Loan struct {
	ID                      int64      `json:"id"`
	LibroID                 int64      `json:"libro_id"`
	ClienteID               int64      `json:"cliente_id"`
	UsuarioID               int64      `json:"usuario_id"`
	FechaPrestamo           time.Time  `json:"fecha_prestamo"`
	FechaDevolucionEsperada time.Time  `json:"fecha_devolucion_esperada"`
	FechaDevolucionReal     *time.Time `json:"fecha_devolucion_real"`
	Estado                  State      `json:"estado"`

	Libro   *BookRef    `json:"libro,omitempty"`
	Cliente *ClienteRef `json:"cliente,omitempty"`
	Usuario *UserRef    `json:"usuario,omitempty"`
}

func (l Loan) Active() bool { return l.Estado == StateActive }

type BookRef struct {
	ID        int64  `json:"id"`
	Titulo    string `json:"titulo"`
	Autor     string `json:"autor"`
	Editorial string `json:"editorial,omitempty"`
	ISBN      string `json:"isbn"`
}

type ClienteRef struct {
	ID                   int64  `json:"id"`
	Nombre               string `json:"nombre"`
	Apellido             string `json:"apellido"`
	Correo               string `json:"correo"`
	NumeroIdentificacion string `json:"numero_identificacion"`
}

type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LockedBook is the part of a book row the engine reads under a row lock.
type LockedBook struct {
	ID                 int64
	Titulo             string
	CantidadDisponible int
}

// LockedCliente is the part of a cliente row the engine reads under a row lock.
type LockedCliente struct {
	ID       int64
	Nombre   string
	Apellido string
}

var (
	ErrNotFound        = apperr.NotFound("LOAN_NOT_FOUND", "loan not found")
	ErrBookNotFound    = apperr.NotFound("BOOK_NOT_FOUND", "book not found")
	ErrClienteNotFound = apperr.NotFound("CLIENTE_NOT_FOUND", "cliente not found")
	ErrAlreadyReturned = apperr.Conflict("ALREADY_RETURNED", "loan was already returned")
)

func errNoCopies(available int) error {
	return apperr.Conflict("NO_COPIES_AVAILABLE", "no copies of this book are available").
		With("disponibles", available)
}

// errClienteHasLoan names the held book when it is known.
func errClienteHasLoan(titulo string) error {
	err := apperr.Conflict("CLIENTE_HAS_ACTIVE_LOAN", "cliente already holds a book")
	if titulo == "" {
		return err
	}
	return err.With("libro", titulo)
}
