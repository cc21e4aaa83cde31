package checkout

import (
	"time"

	"github.com/estore/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest carries the shipping details for placing an order
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	Phone           string `json:"phone" binding:"required,max=30"`
}

// UpdateOrderStatusRequest represents an administrative status transition
type UpdateOrderStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required,orderstatus"`
}

// OrderListFilter carries order history pagination
type OrderListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// OrderItemResponse represents an order line in API responses
// Unit price is the snapshot captured at checkout time
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	Status          order.OrderStatus   `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress string              `json:"shipping_address"`
	Phone           string              `json:"phone"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		Status:          o.Status,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
