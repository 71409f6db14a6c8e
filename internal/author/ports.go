package author

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=author

// Repository defines the contract for author data storage.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	GetByName(ctx context.Context, name string) (Author, error)
	Create(ctx context.Context, name string) (Author, error)
	// FindOrCreate returns the author with the given name, inserting it
	// first if needed. Concurrent calls for one name yield a single row.
	FindOrCreate(ctx context.Context, name string) (Author, bool, error)
	Rename(ctx context.Context, id int64, name string) (Author, error)
}
