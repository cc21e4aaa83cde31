package checkout

import (
	"context"

	"github.com/estore/backend/internal/domain/order"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles the read side of orders plus administrative
// status transitions
type OrderService struct {
	orderRepo      order.OrderRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// History returns the user's orders, newest first
func (s *OrderService) History(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, shared.ErrUnauthorized
	}

	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}

	orders, err := s.orderRepo.FindByUser(ctx, userID, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// Get returns a single order, scoped to its owner
// Another user's order reads as missing
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateStatus transitions an order through the fulfilment state machine
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateStatus(req.Status); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		events := o.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			o.ClearDomainEvents()
		}
	}

	response := ToOrderResponse(o)
	return &response, nil
}
