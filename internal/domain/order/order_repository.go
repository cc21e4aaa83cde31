package order

import (
	"context"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindByUser finds a user's orders matching the filter, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ExistsByNumber checks whether an order number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, o *Order) error
}
