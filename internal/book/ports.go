package book

import (
	"context"

	"bookshelf/internal/author"
	"bookshelf/internal/genre"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage. Reads return
// books joined with their author and genre.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Book, error)
	Titles(ctx context.Context) ([]string, error)
	GetByTitle(ctx context.Context, title string) (Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, title string, authorID, genreID int64) (int64, error)
	Update(ctx context.Context, id int64, title string, authorID, genreID int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every book and returns the rows as they were
	// before deletion.
	DeleteAll(ctx context.Context) ([]Book, error)
}

// AuthorRepository is the slice of author storage the book service needs.
type AuthorRepository interface {
	FindOrCreate(ctx context.Context, name string) (author.Author, bool, error)
}

// GenreRepository is the slice of genre storage the book service needs.
type GenreRepository interface {
	GetByName(ctx context.Context, name string) (genre.Genre, error)
}
