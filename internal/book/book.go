package book

import (
	"errors"

	"bookshelf/internal/author"
	"bookshelf/internal/genre"

	"github.com/samber/lo"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidGenre is returned by updates that name an unknown genre.
	ErrInvalidGenre = errors.New("invalid genre")
)

// Book is a book row joined with its author and genre.
type Book struct {
	ID     int64
	Title  string
	Author author.Author
	Genre  genre.Genre
}

// Filter holds the equality filters for listing books. Empty fields are
// ignored.
type Filter struct {
	Title  string
	Author string
	Genre  string
}

// Applied returns the non-empty filters keyed by their query parameter.
func (f Filter) Applied() map[string]string {
	return lo.OmitByValues(map[string]string{
		"title":  f.Title,
		"author": f.Author,
		"genre":  f.Genre,
	}, []string{""})
}

// Input carries the client-supplied fields of a create or update.
type Input struct {
	Title  string
	Genre  string
	Author string
}

// UpdateResult holds a book before and after an update. Changed is false
// when the update matched the stored values and nothing was written.
type UpdateResult struct {
	Before  Book
	After   Book
	Changed bool
}
