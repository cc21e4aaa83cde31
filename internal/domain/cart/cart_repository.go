package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUser finds the cart owned by a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindBySessionToken finds the cart owned by an anonymous session
	FindBySessionToken(ctx context.Context, token string) (*Cart, error)

	// Save creates or updates a cart together with its items
	Save(ctx context.Context, c *Cart) error

	// DeleteItem removes a single cart item
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// Delete removes a cart and all its items
	Delete(ctx context.Context, id uuid.UUID) error
}
