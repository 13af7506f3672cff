package book

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides book-related business logic. Every operation first checks
// that the owning author exists.
type Service struct {
	repo    Repository
	authors AuthorChecker
}

// NewService creates a new book service.
func NewService(repo Repository, authors AuthorChecker) *Service {
	return &Service{repo: repo, authors: authors}
}

func (s *Service) ensureAuthor(ctx context.Context, authorID uuid.UUID) error {
	ok, err := s.authors.Exists(ctx, authorID)
	if err != nil {
		return fmt.Errorf("check author %s: %w", authorID, err)
	}
	if !ok {
		return ErrAuthorNotFound
	}
	return nil
}

// List returns the author's books.
func (s *Service) List(ctx context.Context, authorID uuid.UUID) ([]Book, error) {
	if err := s.ensureAuthor(ctx, authorID); err != nil {
		return nil, err
	}
	return s.repo.ListByAuthor(ctx, authorID)
}

// Get returns one of the author's books.
func (s *Service) Get(ctx context.Context, authorID, bookID uuid.UUID) (Book, error) {
	if err := s.ensureAuthor(ctx, authorID); err != nil {
		return Book{}, err
	}
	return s.repo.Get(ctx, authorID, bookID)
}

// Create stores a book built from any accepted creation payload and returns
// it as read back from storage.
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, in Creation) (Book, error) {
	if err := s.ensureAuthor(ctx, authorID); err != nil {
		return Book{}, err
	}

	b := in.ToEntity(authorID)
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}

	stored, err := s.repo.Get(ctx, authorID, b.ID)
	if err != nil {
		return Book{}, fmt.Errorf("read back book %s: %w", b.ID, err)
	}
	return stored, nil
}
