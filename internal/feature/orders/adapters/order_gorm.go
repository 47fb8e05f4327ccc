// Package adapters はordersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	cart "storefront_backend/internal/feature/cart/domain/entity"
	catalog "storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/orders/domain/entity"
	"storefront_backend/internal/feature/orders/usecase"
)

// Models returns the tables owned by the orders feature.
func Models() []any {
	return []any{&entity.Order{}, &entity.OrderItem{}}
}

// unitOfWork runs order placement inside gorm transactions.
type unitOfWork struct {
	db *gorm.DB
}

var _ usecase.UnitOfWork = (*unitOfWork)(nil)

// NewUnitOfWork returns a UnitOfWork over db.
func NewUnitOfWork(db *gorm.DB) *unitOfWork {
	return &unitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back otherwise.
func (u *unitOfWork) Do(ctx context.Context, fn func(tx usecase.TxStore) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

// txStore is a usecase.TxStore bound to one transaction.
type txStore struct {
	db *gorm.DB
}

var _ usecase.TxStore = (*txStore)(nil)

func (s *txStore) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DecrementStock runs "stock = stock - qty WHERE stock >= qty".
func (s *txStore) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *txStore) CreateOrder(ctx context.Context, order *entity.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *txStore) ClearCart(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error
}

// orderGorm はOrderRepositoryインターフェースのgorm実装です。
type orderGorm struct {
	db *gorm.DB
}

var _ usecase.OrderRepository = (*orderGorm)(nil)

// NewOrderRepository は指定されたDB接続でorderGormリポジトリの新しいインスタンスを生成します。
func NewOrderRepository(db *gorm.DB) *orderGorm {
	return &orderGorm{db: db}
}

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// ListByUser は新しい順にユーザーの注文を返します。
func (r *orderGorm) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	var orders []entity.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByID は注文を1件返します。
func (r *orderGorm) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsByID).
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}
