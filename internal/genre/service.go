package genre

import (
	"context"
	"strings"
)

// Service provides genre-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new genre service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every genre.
func (s *Service) List(ctx context.Context) ([]Genre, error) {
	return s.repo.List(ctx)
}

// Get returns a genre by its name.
func (s *Service) Get(ctx context.Context, name string) (Genre, error) {
	return s.repo.GetByName(ctx, name)
}

// Create adds a new genre. It fails with ErrExists if the name is taken.
func (s *Service) Create(ctx context.Context, name string) (Genre, error) {
	return s.repo.Create(ctx, strings.TrimSpace(name))
}
