package cart

import (
	"github.com/estore/backend/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies the owner of a cart: an authenticated user
// or an anonymous session, never both
type Actor struct {
	UserID       *uuid.UUID
	SessionToken string
}

// UserActor builds an actor for an authenticated user
func UserActor(userID uuid.UUID) Actor {
	return Actor{UserID: &userID}
}

// SessionActor builds an actor for an anonymous session
func SessionActor(token string) Actor {
	return Actor{SessionToken: token}
}

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a request to set an item's quantity
// A quantity of zero or less removes the item
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	InStock     bool            `json:"in_stock"`
}

// CartResponse represents the cart view with computed totals
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	Total         decimal.Decimal    `json:"total"`
}

// emptyCartResponse builds a response for a cart with no priced lines
func emptyCartResponse(c *cart.Cart) *CartResponse {
	return &CartResponse{
		ID:    c.ID,
		Items: make([]CartItemResponse, 0),
		Total: decimal.Zero,
	}
}
