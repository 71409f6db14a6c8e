package author

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service provides author-related business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new author service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, name string) (Author, error) {
	return s.repo.GetByName(ctx, name)
}

// Create adds a new author. It fails with ErrExists if the name is taken.
func (s *Service) Create(ctx context.Context, name string) (Author, error) {
	a, err := s.repo.Create(ctx, name)
	if err != nil {
		return Author{}, err
	}
	s.logger.Info("author created", zap.Int64("author_id", a.ID), zap.String("author", a.Author))
	return a, nil
}

// Rename changes the name of the author currently called name.
func (s *Service) Rename(ctx context.Context, name, newName string) (Rename, error) {
	current, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return Rename{}, err
	}
	if current.Author == newName {
		return Rename{Before: current, After: current}, nil
	}
	if _, err := s.repo.GetByName(ctx, newName); err == nil {
		return Rename{}, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return Rename{}, err
	}

	updated, err := s.repo.Rename(ctx, current.ID, newName)
	if err != nil {
		return Rename{}, err
	}
	return Rename{Before: current, After: updated}, nil
}
