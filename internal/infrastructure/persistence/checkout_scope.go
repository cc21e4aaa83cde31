package persistence

import (
	"context"

	"gorm.io/gorm"

	appcheckout "github.com/estore/backend/internal/application/checkout"
	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/order"
)

// GormCheckoutScope implements CheckoutScope using GORM transactions.
// Everything executed inside commits or rolls back as a unit.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos appcheckout.CheckoutRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCheckoutRepositories{tx: tx}
		return fn(repos)
	})
}

// gormCheckoutRepositories provides transaction-scoped repositories
type gormCheckoutRepositories struct {
	tx *gorm.DB
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormCheckoutRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormCheckoutRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormCheckoutRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Ensure GormCheckoutScope implements CheckoutScope
var _ appcheckout.CheckoutScope = (*GormCheckoutScope)(nil)

// Ensure gormCheckoutRepositories implements CheckoutRepositories
var _ appcheckout.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
