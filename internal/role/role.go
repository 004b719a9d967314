package role

import (
	"biblioteca/internal/platform/apperr"
)

// Well-known role names. Any other name grants read-only access.
const (
	NameAdmin    = "admin"
	NameGestor   = "gestor"
	NameConsulta = "consulta"
)

var ErrNotFound = apperr.NotFound("ROLE_NOT_FOUND", "role not found")

type Role struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
