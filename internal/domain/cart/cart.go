package cart

import (
	"time"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Cart represents a shopping cart owned by either an authenticated user
// or an anonymous session, never both
type Cart struct {
	shared.BaseAggregateRoot
	UserID       *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	SessionToken *string    `gorm:"type:varchar(64);uniqueIndex"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem represents a single product line in a cart
// A cart holds at most one item per product
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewUserCart creates a cart owned by an authenticated user
func NewUserCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            &userID,
		Items:             make([]CartItem, 0),
	}
}

// NewSessionCart creates a cart owned by an anonymous session token
func NewSessionCart(sessionToken string) (*Cart, error) {
	if sessionToken == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session token cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionToken:      &sessionToken,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem merges quantity into an existing line for the product
// or creates a new line
func (c *Cart) AddItem(productID uuid.UUID, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].UpdatedAt = time.Now()
			c.touch()
			return &c.Items[i], nil
		}
	}

	item := CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	c.Items = append(c.Items, item)
	c.touch()

	return &c.Items[len(c.Items)-1], nil
}

// SetItemQuantity sets the quantity of an item
// A quantity of zero or less removes the item and reports removed=true
func (c *Cart) SetItemQuantity(itemID uuid.UUID, quantity int) (removed bool, err error) {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return false, shared.ErrNotFound
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		c.touch()
		return true, nil
	}

	c.Items[idx].Quantity = quantity
	c.Items[idx].UpdatedAt = time.Now()
	c.touch()
	return false, nil
}

// RemoveItem removes an item from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return shared.ErrNotFound
	}

	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch()
	return nil
}

// FindItem returns the item with the given ID, or nil
func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return nil
	}
	return &c.Items[idx]
}

// ItemForProduct returns the line for a product, or nil
func (c *Cart) ItemForProduct(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// IsEmpty returns true if the cart holds no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// IsOwnedByUser returns true if the cart belongs to the given user
func (c *Cart) IsOwnedByUser(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}

// IsAnonymous returns true if the cart is session-owned
func (c *Cart) IsAnonymous() bool {
	return c.SessionToken != nil
}

func (c *Cart) indexOfItem(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
