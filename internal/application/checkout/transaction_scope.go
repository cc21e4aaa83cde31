package checkout

import (
	"context"

	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/order"
)

// CheckoutScope provides transactional access to the repositories
// touched by checkout. Everything executed inside the scope commits
// or rolls back atomically: order row, order items, stock decrements
// and cart deletion.
type CheckoutScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}

// CheckoutRepositories provides access to the checkout repositories
// scoped to the current transaction
type CheckoutRepositories interface {
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() cart.CartRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.OrderRepository
}

// NoOpCheckoutScope runs the checkout block without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpCheckoutScope struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	orderRepo   order.OrderRepository
}

// NewNoOpCheckoutScope creates a NoOpCheckoutScope over the given repositories
func NewNoOpCheckoutScope(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
) *NoOpCheckoutScope {
	return &NoOpCheckoutScope{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpCheckoutScope) Execute(_ context.Context, fn func(repos CheckoutRepositories) error) error {
	return fn(s)
}

// CartRepo returns the cart repository
func (s *NoOpCheckoutScope) CartRepo() cart.CartRepository {
	return s.cartRepo
}

// ProductRepo returns the product repository
func (s *NoOpCheckoutScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// OrderRepo returns the order repository
func (s *NoOpCheckoutScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

var _ CheckoutScope = (*NoOpCheckoutScope)(nil)
var _ CheckoutRepositories = (*NoOpCheckoutScope)(nil)
