package order

import (
	"time"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPlaced:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem is a line item of an order with the price captured
// at checkout time
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times the captured unit price
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a placed order
// Its items and total are immutable after creation; only the status moves
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number          string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'placed'"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingAddress string          `gorm:"type:text;not null"`
	Phone           string          `gorm:"type:varchar(30);not null"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a placed order for a user
func NewOrder(userID uuid.UUID, number, shippingAddress, phone string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if shippingAddress == "" || phone == "" {
		return nil, shared.ErrMissingRequiredField
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Number:            number,
		Status:            OrderStatusPlaced,
		Total:             decimal.Zero,
		ShippingAddress:   shippingAddress,
		Phone:             phone,
		Items:             make([]OrderItem, 0),
	}

	return o, nil
}

// AddItem captures a product line with its current price
// Only allowed while the order is being assembled at checkout
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice valueobject.Money) error {
	if o.Status != OrderStatusPlaced {
		return shared.ErrInvalidState
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
	}
	o.Items = append(o.Items, item)
	o.Total = o.Total.Add(item.LineTotal())
	o.UpdatedAt = time.Now()

	return nil
}

// Place finalizes the order and records the placed event
// Called once, after all items are added
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.ErrEmptyCart
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// UpdateStatus transitions the order to a new status
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState
	}

	oldStatus := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// Cancel cancels the order if its status allows it
func (o *Order) Cancel() error {
	return o.UpdateStatus(OrderStatusCancelled)
}

// GetTotalMoney returns the order total as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// IsOwnedBy returns true if the order belongs to the given user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}
