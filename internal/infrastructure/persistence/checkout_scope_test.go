package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appcheckout "github.com/estore/backend/internal/application/checkout"
	"github.com/estore/backend/internal/domain/cart"
	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/order"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/domain/shared/valueobject"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	)
	require.NoError(t, err)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *catalog.Product {
	t.Helper()

	price, err := valueobject.NewMoneyUSDFromString("25.00")
	require.NoError(t, err)
	product, err := catalog.NewProduct("Oak Chair", "Solid oak chair", price, stock)
	require.NoError(t, err)
	product.ClearDomainEvents()
	require.NoError(t, db.Save(product).Error)
	return product
}

func TestDecrementStock_NeverGoesNegative(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)

	// First buyer takes 3 of 5
	require.NoError(t, repo.DecrementStock(ctx, product.ID, 3))

	// Second buyer wants 3 but only 2 remain
	err := repo.DecrementStock(ctx, product.ID, 3)
	assert.Equal(t, shared.ErrInsufficientStock, err)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestGormCheckoutScope_CommitsOnSuccess(t *testing.T) {
	db := setupCheckoutTestDB(t)
	scope := NewGormCheckoutScope(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)
	userID := uuid.New()

	userCart := cart.NewUserCart(userID)
	_, err := userCart.AddItem(product.ID, 2)
	require.NoError(t, err)
	require.NoError(t, NewGormCartRepository(db).Save(ctx, userCart))

	err = scope.Execute(ctx, func(repos appcheckout.CheckoutRepositories) error {
		if err := repos.ProductRepo().DecrementStock(ctx, product.ID, 2); err != nil {
			return err
		}

		o, err := order.NewOrder(userID, "ORD-AB12CD34", "1 Main St", "+15550100")
		if err != nil {
			return err
		}
		if err := o.AddItem(product.ID, product.Name, 2, product.GetPriceMoney()); err != nil {
			return err
		}
		if err := o.Place(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		return repos.CartRepo().Delete(ctx, userCart.ID)
	})
	require.NoError(t, err)

	reloaded, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock)

	saved, err := NewGormOrderRepository(db).FindByNumber(ctx, "ORD-AB12CD34")
	require.NoError(t, err)
	assert.Len(t, saved.Items, 1)

	_, err = NewGormCartRepository(db).FindByUser(ctx, userID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormCheckoutScope_RollsBackOnError(t *testing.T) {
	db := setupCheckoutTestDB(t)
	scope := NewGormCheckoutScope(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)
	boom := errors.New("order save failed")

	err := scope.Execute(ctx, func(repos appcheckout.CheckoutRepositories) error {
		if err := repos.ProductRepo().DecrementStock(ctx, product.ID, 2); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The stock decrement was rolled back with the transaction
	reloaded, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestGormCheckoutScope_InsufficientStockAbortsOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	scope := NewGormCheckoutScope(db)
	ctx := context.Background()

	product := seedProduct(t, db, 1)

	err := scope.Execute(ctx, func(repos appcheckout.CheckoutRepositories) error {
		return repos.ProductRepo().DecrementStock(ctx, product.ID, 2)
	})
	assert.Equal(t, shared.ErrInsufficientStock, err)

	var count int64
	require.NoError(t, db.Model(&order.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
