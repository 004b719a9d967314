package role

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=role

type Repository interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id int64) (Role, error)
}
