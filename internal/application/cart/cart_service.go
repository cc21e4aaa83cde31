package cart

import (
	"context"
	"errors"

	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService handles shopping cart operations for both
// authenticated users and anonymous sessions
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// View returns the actor's cart with line totals computed from
// current product prices
func (s *CartService) View(ctx context.Context, actor Actor) (*CartResponse, error) {
	c, err := s.resolveCart(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, c)
}

// AddItem adds a product to the actor's cart, merging with an
// existing line for the same product
// The stock check is advisory: it reads current stock without locking
func (s *CartService) AddItem(ctx context.Context, actor Actor, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrNotFound
	}
	if !product.HasStockFor(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	c, err := s.resolveCart(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := c.AddItem(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// UpdateItem sets an item's quantity; zero or less removes the item
func (s *CartService) UpdateItem(ctx context.Context, actor Actor, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.resolveCart(ctx, actor)
	if err != nil {
		return nil, err
	}

	item := c.FindItem(itemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	if req.Quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.HasStockFor(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}

	removed, err := c.SetItemQuantity(itemID, req.Quantity)
	if err != nil {
		return nil, err
	}

	if removed {
		if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
			return nil, err
		}
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// RemoveItem removes an item from the actor's cart unconditionally
func (s *CartService) RemoveItem(ctx context.Context, actor Actor, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.resolveCart(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// ResolveCart returns the actor's cart, creating it on first use
func (s *CartService) ResolveCart(ctx context.Context, actor Actor) (*cart.Cart, error) {
	return s.resolveCart(ctx, actor)
}

func (s *CartService) resolveCart(ctx context.Context, actor Actor) (*cart.Cart, error) {
	if actor.UserID != nil {
		c, err := s.cartRepo.FindByUser(ctx, *actor.UserID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		c = cart.NewUserCart(*actor.UserID)
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	if actor.SessionToken == "" {
		return nil, shared.ErrUnauthorized
	}

	c, err := s.cartRepo.FindBySessionToken(ctx, actor.SessionToken)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	c, err = cart.NewSessionCart(actor.SessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) buildResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if c.IsEmpty() {
		return emptyCartResponse(c), nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for i := range c.Items {
		ids = append(ids, c.Items[i].ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	response := &CartResponse{
		ID:    c.ID,
		Items: make([]CartItemResponse, 0, len(c.Items)),
		Total: decimal.Zero,
	}

	for i := range c.Items {
		item := &c.Items[i]
		product, ok := byID[item.ProductID]
		if !ok {
			// Product removed from the catalog since it was carted
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		response.Items = append(response.Items, CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
			InStock:     product.HasStockFor(item.Quantity),
		})
		response.TotalQuantity += item.Quantity
		response.Total = response.Total.Add(lineTotal)
	}

	return response, nil
}
