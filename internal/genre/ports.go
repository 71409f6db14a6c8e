package genre

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=genre

// Repository defines the contract for genre data storage.
type Repository interface {
	List(ctx context.Context) ([]Genre, error)
	GetByName(ctx context.Context, name string) (Genre, error)
	Create(ctx context.Context, name string) (Genre, error)
}
