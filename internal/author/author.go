package author

import "errors"

var (
	// ErrNotFound is returned when an author is not found.
	ErrNotFound = errors.New("author not found")
	// ErrExists is returned when an author with the same name already exists.
	ErrExists = errors.New("author already exists")
)

// Author represents an author entity. The name is unique.
type Author struct {
	ID     int64  `json:"id"`
	Author string `json:"author"`
}

// Rename holds an author before and after a rename.
type Rename struct {
	Before Author `json:"beforeUpdate"`
	After  Author `json:"afterUpdate"`
}
