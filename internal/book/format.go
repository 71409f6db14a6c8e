package book

import "github.com/samber/lo"

// Response is the flat shape every book is rendered in.
type Response struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// Format maps a joined book row to its response shape.
func Format(b Book) Response {
	return Response{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author.Author,
		Genre:  b.Genre.Genre,
	}
}

func FormatAll(books []Book) []Response {
	return lo.Map(books, func(b Book, _ int) Response {
		return Format(b)
	})
}
