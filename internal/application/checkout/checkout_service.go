package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/order"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Order number generation bounds
const (
	orderNumberPrefix   = "ORD-"
	orderNumberAttempts = 8
)

// CheckoutService converts a cart into an order atomically
type CheckoutService struct {
	scope          CheckoutScope
	cartRepo       cart.CartRepository
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope CheckoutScope, cartRepo cart.CartRepository) *CheckoutService {
	return &CheckoutService{
		scope:    scope,
		cartRepo: cartRepo,
	}
}

// SetEventPublisher sets the event publisher for post-commit notifications
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout places an order from the user's cart.
// Preconditions are verified before any write; the order row, item
// snapshots, stock decrements and cart deletion then commit or roll
// back as one transaction.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	address := strings.TrimSpace(req.ShippingAddress)
	phone := strings.TrimSpace(req.Phone)
	if address == "" || phone == "" {
		return nil, shared.ErrMissingRequiredField
	}

	userCart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	var placed *order.Order
	err = s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
		// Reload inside the transaction so concurrent checkouts of the
		// same cart see a consistent line set
		c, err := repos.CartRepo().FindByID(ctx, userCart.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		number, err := s.generateOrderNumber(ctx, repos.OrderRepo())
		if err != nil {
			return err
		}

		o, err := order.NewOrder(userID, number, address, phone)
		if err != nil {
			return err
		}

		for i := range c.Items {
			item := &c.Items[i]
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := o.AddItem(product.ID, product.Name, item.Quantity, product.GetPriceMoney()); err != nil {
				return err
			}
			// Conditional decrement: fails the whole transaction when
			// another checkout got the stock first
			if err := repos.ProductRepo().DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
		}

		if err := o.Place(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		if err := repos.CartRepo().Delete(ctx, c.ID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, shared.ErrOrderPersistenceFailure
	}

	s.publishEvents(ctx, placed)

	response := ToOrderResponse(placed)
	return &response, nil
}

// generateOrderNumber produces a unique ORD-XXXXXXXX number, retrying
// on collision. The unique index on orders.number is the backstop.
func (s *CheckoutService) generateOrderNumber(ctx context.Context, orderRepo order.OrderRepository) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		number := orderNumberPrefix + strings.ToUpper(hex.EncodeToString(buf))

		exists, err := orderRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("ORDER_NUMBER_CONFLICT", "Could not allocate a unique order number")
}

func (s *CheckoutService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Published after commit; delivery failures must not undo the order
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}
