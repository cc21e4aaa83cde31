package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cartapp "github.com/estore/backend/internal/application/cart"
	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/infrastructure/config"
	"github.com/estore/backend/internal/infrastructure/session"
	"github.com/estore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository implements cart.CartRepository for testing
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindBySessionToken(ctx context.Context, token string) (*cart.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupCartRouter(cartRepo *MockCartRepository, productRepo *MockProductRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.SessionMiddleware(middleware.SessionMiddlewareConfig{
		Store:   session.NewInMemoryStore(time.Hour),
		Session: config.SessionConfig{CookieName: "store_session", TTL: time.Hour},
		Cookie:  config.CookieConfig{Path: "/", SameSite: "lax"},
	}))

	handler := NewCartHandler(cartapp.NewCartService(cartRepo, productRepo))
	handler.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestCartHandler_View_CreatesSessionCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	engine := setupCartRouter(cartRepo, productRepo)

	cartRepo.On("FindBySessionToken", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	cartRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionTokenHeader))
}

func TestCartHandler_AddItem(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	engine := setupCartRouter(cartRepo, productRepo)

	product := mustNewProduct(t, "Widget", "9.99", 10)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

	cartRepo.On("FindBySessionToken", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	cartRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	body := strings.NewReader(`{"product_id":"` + product.ID.String() + `","quantity":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_quantity":2`)
	assert.Contains(t, w.Body.String(), `"line_total":"19.98"`)
}

func TestCartHandler_AddItem_InsufficientStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	engine := setupCartRouter(cartRepo, productRepo)

	product := mustNewProduct(t, "Widget", "9.99", 1)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	body := strings.NewReader(`{"product_id":"` + product.ID.String() + `","quantity":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartHandler_AddItem_InvalidBody(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	engine := setupCartRouter(cartRepo, productRepo)

	body := strings.NewReader(`{"quantity":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	engine := setupCartRouter(cartRepo, productRepo)

	sessionCart, err := cart.NewSessionCart(strings.Repeat("a", 64))
	require.NoError(t, err)
	item, err := sessionCart.AddItem(uuid.New(), 1)
	require.NoError(t, err)
	itemID := item.ID

	cartRepo.On("FindBySessionToken", mock.Anything, mock.Anything).Return(sessionCart, nil)
	cartRepo.On("DeleteItem", mock.Anything, itemID).Return(nil)
	cartRepo.On("Save", mock.Anything, sessionCart).Return(nil)
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cartRepo.AssertCalled(t, "DeleteItem", mock.Anything, itemID)
}
