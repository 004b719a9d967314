package cliente

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=cliente

type Repository interface {
	List(ctx context.Context) ([]Cliente, error)
	GetByID(ctx context.Context, id int64) (Cliente, error)
	NumeroTaken(ctx context.Context, numero string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *Cliente) error
	Update(ctx context.Context, c *Cliente) error
}

// Deleter removes a cliente together with its loan history once no loan is active.
type Deleter interface {
	DeleteCliente(ctx context.Context, clienteID int64) error
}
