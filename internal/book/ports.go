package book

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Book, error)
	Get(ctx context.Context, authorID, bookID uuid.UUID) (Book, error)
	// Create assigns the book an ID when it has none and persists it.
	Create(ctx context.Context, b *Book) error
}

// AuthorChecker reports whether an author exists.
type AuthorChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
