package genre

import "errors"

var (
	// ErrNotFound is returned when a genre is not found.
	ErrNotFound = errors.New("genre not found")
	// ErrExists is returned when a genre with the same name already exists.
	ErrExists = errors.New("genre already exists")
)

// Genre represents a genre entity. Genres are looked up by name and are
// never created implicitly by book writes.
type Genre struct {
	ID    int64  `json:"id"`
	Genre string `json:"genre"`
}
