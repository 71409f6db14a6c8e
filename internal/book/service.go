package book

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/author"
	"bookshelf/internal/genre"

	"go.uber.org/zap"
)

// Service provides book-related business logic.
type Service struct {
	books   Repository
	authors AuthorRepository
	genres  GenreRepository
	logger  *zap.Logger
}

// NewService creates a new book service.
func NewService(books Repository, authors AuthorRepository, genres GenreRepository, logger *zap.Logger) *Service {
	return &Service{books: books, authors: authors, genres: genres, logger: logger}
}

// Create adds a book. The genre must already exist (genre.ErrNotFound
// otherwise); the author is created when missing.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	g, err := s.genres.GetByName(ctx, in.Genre)
	if err != nil {
		return Book{}, err
	}

	a, err := s.resolveAuthor(ctx, in.Author)
	if err != nil {
		return Book{}, err
	}

	id, err := s.books.Create(ctx, in.Title, a.ID, g.ID)
	if err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return Book{ID: id, Title: in.Title, Author: a, Genre: g}, nil
}

// List returns the books matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]Book, error) {
	return s.books.List(ctx, f)
}

// Titles returns the title of every book.
func (s *Service) Titles(ctx context.Context) ([]string, error) {
	return s.books.Titles(ctx)
}

// GetByTitle returns the book with the given title.
func (s *Service) GetByTitle(ctx context.Context, title string) (Book, error) {
	return s.books.GetByTitle(ctx, title)
}

// UpdateByTitle replaces the title, genre and author of the book called
// title. Blank input fields keep their current value. When nothing differs
// from the stored book no write happens and Changed is false.
func (s *Service) UpdateByTitle(ctx context.Context, title string, in Input) (UpdateResult, error) {
	current, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		return UpdateResult{}, err
	}

	if in.Title == "" {
		in.Title = current.Title
	}
	if in.Genre == "" {
		in.Genre = current.Genre.Genre
	}
	if in.Author == "" {
		in.Author = current.Author.Author
	}

	g, err := s.genres.GetByName(ctx, in.Genre)
	if err != nil {
		if errors.Is(err, genre.ErrNotFound) {
			return UpdateResult{}, ErrInvalidGenre
		}
		return UpdateResult{}, err
	}

	if in.Title == current.Title && in.Author == current.Author.Author && g.ID == current.Genre.ID {
		return UpdateResult{Before: current, After: current}, nil
	}

	a, err := s.resolveAuthor(ctx, in.Author)
	if err != nil {
		return UpdateResult{}, err
	}

	if err := s.books.Update(ctx, current.ID, in.Title, a.ID, g.ID); err != nil {
		return UpdateResult{}, fmt.Errorf("update book %d: %w", current.ID, err)
	}

	updated, err := s.books.GetByID(ctx, current.ID)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Before: current, After: updated, Changed: true}, nil
}

// DeleteByTitle removes the book called title and returns it.
func (s *Service) DeleteByTitle(ctx context.Context, title string) (Book, error) {
	b, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		return Book{}, err
	}
	if err := s.books.Delete(ctx, b.ID); err != nil {
		return Book{}, fmt.Errorf("delete book %d: %w", b.ID, err)
	}
	return b, nil
}

// DeleteAll removes every book and returns the deleted rows.
func (s *Service) DeleteAll(ctx context.Context) ([]Book, error) {
	deleted, err := s.books.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.logger.Info("books deleted", zap.Int("count", len(deleted)))
	}
	return deleted, nil
}

func (s *Service) resolveAuthor(ctx context.Context, name string) (author.Author, error) {
	a, created, err := s.authors.FindOrCreate(ctx, name)
	if err != nil {
		return author.Author{}, fmt.Errorf("resolve author %q: %w", name, err)
	}
	if created {
		s.logger.Info("author created", zap.Int64("author_id", a.ID), zap.String("author", a.Author))
	}
	return a, nil
}
