package catalog

import (
	"time"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the storefront catalog
// It is the aggregate root for catalog operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price valueobject.Money, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price.Amount(),
		Stock:             stock,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, imageURL string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.ImageURL = imageURL
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// AdjustStock applies a signed stock delta
// The resulting stock level can never go below zero
func (p *Product) AdjustStock(delta int) error {
	newStock := p.Stock + delta
	if newStock < 0 {
		return shared.ErrInsufficientStock
	}

	oldStock := p.Stock
	p.Stock = newStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, oldStock))

	return nil
}

// Activate makes the product visible in the storefront
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// InStock returns true if the product has stock available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasStockFor returns true if the product can cover the requested quantity
func (p *Product) HasStockFor(quantity int) bool {
	return quantity <= p.Stock
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
