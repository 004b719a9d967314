// Package cliente manages library patrons.
package cliente

import (
	"time"

	"biblioteca/internal/platform/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("CLIENTE_NOT_FOUND", "cliente not found")
	ErrNumeroTaken   = apperr.Conflict("DUPLICATE_IDENTIFICATION", "a cliente with this numero_identificacion already exists")
	ErrInvalidNumero = apperr.Validation("INVALID_IDENTIFICATION", "numero_identificacion must have exactly 13 characters")
)

// numeroConstraint is the unique constraint on clientes.numero_identificacion.
const numeroConstraint = "clientes_numero_identificacion_key"

// numeroLength is the length of a national identification number.
const numeroLength = 13

type Cliente struct {
	ID                   int64     `json:"id"`
	Nombre               string    `json:"nombre"`
	Apellido             string    `json:"apellido"`
	Correo               string    `json:"correo"`
	Telefono             *string   `json:"telefono"`
	NumeroIdentificacion string    `json:"numero_identificacion"`
	CreatedAt            time.Time `json:"created_at"`
}

type CreateInput struct {
	Nombre               string
	Apellido             string
	Correo               string
	Telefono             *string
	NumeroIdentificacion string
}

// UpdateInput holds the fields to change; nil fields keep their value.
type UpdateInput struct {
	Nombre               *string
	Apellido             *string
	Correo               *string
	Telefono             *string
	NumeroIdentificacion *string
}
