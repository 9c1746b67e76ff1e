package favorite

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)
	// Add is a no-op when the favorite already exists.
	Add(ctx context.Context, userID uuid.UUID, menuItemID int64) error
	Remove(ctx context.Context, userID uuid.UUID, menuItemID int64) error
}
