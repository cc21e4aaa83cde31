package catalog

import (
	"context"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAvailable finds active, in-stock products matching the filter
	// The filter search term matches name and description case-insensitively
	FindAvailable(ctx context.Context, filter shared.Filter) ([]Product, error)

	// CountAvailable counts active, in-stock products matching the filter
	CountAvailable(ctx context.Context, filter shared.Filter) (int64, error)

	// FindNewest finds the newest active, in-stock products
	FindNewest(ctx context.Context, limit int) ([]Product, error)

	// FindRelated finds active, in-stock products excluding the given one
	FindRelated(ctx context.Context, excludeID uuid.UUID, limit int) ([]Product, error)

	// FindAll finds all products matching the filter regardless of availability
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically decrements stock if enough is available
	// Returns shared.ErrInsufficientStock when the conditional update matches no row
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
