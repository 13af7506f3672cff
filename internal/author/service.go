package author

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Author, error) {
	return s.repo.Get(ctx, id)
}

// Exists reports whether the author is stored. The book service uses it to
// guard nested routes.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Update replaces the author's names and returns the stored result.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in AuthorForUpdate) (Author, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Author{}, err
	}

	updated := in.Apply(current)
	if err := s.repo.Update(ctx, updated); err != nil {
		return Author{}, fmt.Errorf("update author %s: %w", id, err)
	}
	return updated, nil
}
