package order

import (
	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedLine captures a line of a placed order for event consumers
type OrderPlacedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPlacedEvent is published after a checkout commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID         `json:"order_id"`
	UserID  uuid.UUID         `json:"user_id"`
	Number  string            `json:"number"`
	Total   decimal.Decimal   `json:"total"`
	Lines   []OrderPlacedLine `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	lines := make([]OrderPlacedLine, 0, len(o.Items))
	for i := range o.Items {
		lines = append(lines, OrderPlacedLine{
			ProductID: o.Items[i].ProductID,
			Quantity:  o.Items[i].Quantity,
			UnitPrice: o.Items[i].UnitPrice,
		})
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Number:          o.Number,
		Total:           o.Total,
		Lines:           lines,
	}
}

// OrderStatusChangedEvent is published when an order's status transitions
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	Number    string      `json:"number"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		OldStatus:       oldStatus,
		NewStatus:       o.Status,
	}
}
