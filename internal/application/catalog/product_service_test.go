package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/domain/shared/valueobject"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountAvailable(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindNewest(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindRelated(ctx context.Context, excludeID uuid.UUID, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func newTestProduct(t *testing.T, name string, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", valueobject.NewMoneyUSD(decimal.NewFromInt(10)), stock)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductServiceList(t *testing.T) {
	t.Run("applies defaults and returns items with total", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		products := []catalog.Product{*newTestProduct(t, "Mug", 3)}
		repo.On("FindAvailable", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Search == "mug"
		})).Return(products, nil)
		repo.On("CountAvailable", mock.Anything, mock.Anything).Return(int64(1), nil)

		items, total, err := service.List(context.Background(), ListProductsFilter{Search: "mug"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Mug", items[0].Name)

		repo.AssertExpectations(t)
	})

	t.Run("caps oversized page size", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("FindAvailable", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == 20
		})).Return([]catalog.Product{}, nil)
		repo.On("CountAvailable", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, _, err := service.List(context.Background(), ListProductsFilter{PageSize: 500})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProductServiceFeatured(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)

	repo.On("FindNewest", mock.Anything, defaultFeaturedCount).Return([]catalog.Product{}, nil)

	_, err := service.Featured(context.Background(), 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductServiceGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		product := newTestProduct(t, "Mug", 3)

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		resp, err := service.Get(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, resp.ID)
		assert.True(t, resp.InStock)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.Get(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceRelated(t *testing.T) {
	t.Run("anchor product must exist", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.Related(context.Background(), id, 4)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "FindRelated", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("excludes the anchor", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		product := newTestProduct(t, "Mug", 3)

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("FindRelated", mock.Anything, product.ID, 4).Return([]catalog.Product{}, nil)

		_, err := service.Related(context.Background(), product.ID, 4)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProductServiceCreate(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(context.Background(), CreateProductRequest{
		Name:  "Mug",
		Price: decimal.NewFromFloat(12.50),
		Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mug", resp.Name)
	assert.Equal(t, 5, resp.Stock)
	repo.AssertExpectations(t)
}

func TestProductServiceAdjustStock(t *testing.T) {
	t.Run("applies delta", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		product := newTestProduct(t, "Mug", 5)

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := service.AdjustStock(context.Background(), product.ID, AdjustStockRequest{Delta: -2})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Stock)
	})

	t.Run("bottoming out leaves stock unchanged", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		product := newTestProduct(t, "Mug", 5)

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := service.AdjustStock(context.Background(), product.ID, AdjustStockRequest{Delta: -6})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
