package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cart "storefront_backend/internal/feature/cart/domain/entity"
	catalogadapters "storefront_backend/internal/feature/catalog/adapters"
	catalog "storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/orders/domain/entity"
	"storefront_backend/internal/feature/orders/usecase"
	platformdb "storefront_backend/internal/platform/db"
)

// setupTestDB prepares an in-memory SQLite database with the seeded catalog.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := platformdb.OpenSQLite(":memory:")
	require.NoError(t, err, "failed to initialize test database")
	t.Cleanup(func() { _ = platformdb.Close(db) })

	models := append(catalogadapters.Models(), Models()...)
	models = append(models, &cart.CartItem{})
	require.NoError(t, platformdb.Migrate(db, models...))
	require.NoError(t, catalogadapters.Seed(context.Background(), db, catalogadapters.SeedProducts()))
	return db
}

func stockOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var p catalog.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func setStock(t *testing.T, db *gorm.DB, id string, stock int) {
	t.Helper()
	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", id).Update("stock", stock).Error)
}

func TestTxStore_DecrementStock(t *testing.T) {
	db := setupTestDB(t)
	s := &txStore{db: db}
	ctx := context.Background()

	ok, err := s.DecrementStock(ctx, "1", 50)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, stockOf(t, db, "1"))

	ok, err = s.DecrementStock(ctx, "1", 1)
	require.NoError(t, err)
	assert.False(t, ok, "stock never goes negative")
	assert.Equal(t, 0, stockOf(t, db, "1"))

	ok, err = s.DecrementStock(ctx, "missing", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTxStore_FindProduct(t *testing.T) {
	s := &txStore{db: setupTestDB(t)}

	p, err := s.FindProduct(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "To Kill a Mockingbird", p.Title)

	_, err = s.FindProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	uow := NewUnitOfWork(db)
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(tx usecase.TxStore) error {
		ok, err := tx.DecrementStock(context.Background(), "1", 5)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 50, stockOf(t, db, "1"))
}

func TestOrderGorm_CreateListFind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	older := &entity.Order{
		ID: "o-1", UserID: "u-1", Status: entity.StatusCompleted,
		CreatedAt: time.Now().Add(-time.Hour),
		Items: []entity.OrderItem{
			{OrderID: "o-1", ProductID: "1", Quantity: 2, Price: decimal.RequireFromString("12.99")},
			{OrderID: "o-1", ProductID: "3", Quantity: 1, Price: decimal.RequireFromString("13.99")},
		},
	}
	older.Total = older.ComputeTotal()
	newer := &entity.Order{
		ID: "o-2", UserID: "u-1", Status: entity.StatusCompleted, CreatedAt: time.Now(),
		Items: []entity.OrderItem{{OrderID: "o-2", ProductID: "2", Quantity: 1, Price: decimal.RequireFromString("14.99")}},
	}
	newer.Total = newer.ComputeTotal()
	other := &entity.Order{ID: "o-3", UserID: "u-2", Status: entity.StatusCompleted, CreatedAt: time.Now()}

	s := &txStore{db: db}
	for _, o := range []*entity.Order{older, newer, other} {
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	list, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o-2", list[0].ID, "newest first")
	require.Len(t, list[1].Items, 2)
	assert.Equal(t, "1", list[1].Items[0].ProductID)
	assert.Equal(t, "39.97", list[1].Total.StringFixed(2))

	got, err := repo.FindByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Len(t, got.Items, 2)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrOrderNotFound)
}

func TestTxStore_ClearCart(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&[]cart.CartItem{
		{UserID: "u-1", ProductID: "1", Quantity: 1},
		{UserID: "u-2", ProductID: "1", Quantity: 1},
	}).Error)

	require.NoError(t, (&txStore{db: db}).ClearCart(context.Background(), "u-1"))

	var n int64
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreateOrder_AgainstStore(t *testing.T) {
	t.Run("over-stock order leaves every line untouched", func(t *testing.T) {
		db := setupTestDB(t)
		setStock(t, db, "2", 1)
		uc := usecase.NewOrdersUsecase(NewUnitOfWork(db), NewOrderRepository(db), nil, nil)

		_, err := uc.CreateOrder(context.Background(), "u-1", []entity.LineItem{
			{ProductID: "1", Quantity: 3},
			{ProductID: "2", Quantity: 2},
		})

		assert.ErrorIs(t, err, usecase.ErrInsufficientStock)
		assert.Equal(t, 50, stockOf(t, db, "1"))
		assert.Equal(t, 1, stockOf(t, db, "2"))
	})

	t.Run("success decrements stock and clears cart", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Create(&cart.CartItem{UserID: "u-1", ProductID: "1", Quantity: 1}).Error)
		uc := usecase.NewOrdersUsecase(NewUnitOfWork(db), NewOrderRepository(db), nil, nil)

		order, err := uc.CreateOrder(context.Background(), "u-1", []entity.LineItem{
			{ProductID: "1", Quantity: 2},
			{ProductID: "6", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, "40.97", order.Total.StringFixed(2))
		assert.Equal(t, 48, stockOf(t, db, "1"))
		assert.Equal(t, 41, stockOf(t, db, "6"))

		var n int64
		require.NoError(t, db.Model(&cart.CartItem{}).Where("user_id = ?", "u-1").Count(&n).Error)
		assert.Zero(t, n)

		stored, err := NewOrderRepository(db).FindByID(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
	})

	t.Run("concurrent buyers never oversell", func(t *testing.T) {
		db := setupTestDB(t)
		setStock(t, db, "3", 5)
		uc := usecase.NewOrdersUsecase(NewUnitOfWork(db), NewOrderRepository(db), nil, nil)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.CreateOrder(context.Background(), "u-1", []entity.LineItem{{ProductID: "3", Quantity: 1}})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		assert.Equal(t, 0, stockOf(t, db, "3"))
	})
}
