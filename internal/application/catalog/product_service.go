package catalog

import (
	"context"

	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Default sizes for storefront listings
const (
	defaultFeaturedCount = 8
	defaultRelatedCount  = 4
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List retrieves available products with search and pagination
func (s *ProductService) List(ctx context.Context, filter ListProductsFilter) ([]ProductResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	products, err := s.productRepo.FindAvailable(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountAvailable(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Featured retrieves the newest available products for the home page
func (s *ProductService) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultFeaturedCount
	}

	products, err := s.productRepo.FindNewest(ctx, limit)
	if err != nil {
		return nil, err
	}

	return ToProductResponses(products), nil
}

// Get retrieves a single product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Related retrieves available products shown alongside a product page
func (s *ProductService) Related(ctx context.Context, id uuid.UUID, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > 20 {
		limit = defaultRelatedCount
	}

	// The anchor product must exist even when out of stock
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindRelated(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	return ToProductResponses(products), nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price := valueobject.NewMoneyUSD(req.Price)
	product, err := catalog.NewProduct(req.Name, req.Description, price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.ImageURL != "" {
		if err := product.Update(req.Name, req.Description, req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's details
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.ImageURL); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetPrice changes a product's price
func (s *ProductService) SetPrice(ctx context.Context, id uuid.UUID, req SetPriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrice(valueobject.NewMoneyUSD(req.Price)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a signed stock delta to a product
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery is best-effort; failures must not fail the operation
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
