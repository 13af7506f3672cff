package author

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

// Repository defines the contract for author data storage.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	Get(ctx context.Context, id uuid.UUID) (Author, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, a Author) error
}
