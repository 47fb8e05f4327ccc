// Package usecase は注文（チェックアウトと注文履歴）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalog "storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/orders/domain/entity"
	"storefront_backend/internal/shared/apperr"
)

// TxStore はトランザクション内で利用するストア操作を抽象化します。
type TxStore interface {
	// FindProduct は商品を返します。存在しない場合はErrProductNotFoundを返します。
	FindProduct(ctx context.Context, id string) (*catalog.Product, error)
	// DecrementStock は在庫がqty以上ある場合のみ在庫を減らし、減らせたかを返します。
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	// CreateOrder は注文と明細を保存します。
	CreateOrder(ctx context.Context, order *entity.Order) error
	// ClearCart はユーザーのカートを削除します。
	ClearCart(ctx context.Context, userID string) error
}

// UnitOfWork runs fn inside one store transaction. A returned error rolls back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxStore) error) error
}

// OrderRepository は注文の読み取りレイヤーを抽象化します。
type OrderRepository interface {
	// ListByUser は新しい順にユーザーの注文を返します。
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	// FindByID は注文を返します。存在しない場合はErrOrderNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Order, error)
}

// CacheInvalidator drops cached product data after stock changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// EventPublisher announces completed orders.
type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, order *entity.Order)
}

// ordersUsecase は注文のユースケースを定義します。
type ordersUsecase struct {
	uow    UnitOfWork
	orders OrderRepository
	cache  CacheInvalidator
	events EventPublisher
	now    func() time.Time
}

// NewOrdersUsecase はordersUsecaseの新しいインスタンスを生成します。
// cache and events may be nil.
func NewOrdersUsecase(uow UnitOfWork, orders OrderRepository, cache CacheInvalidator, events EventPublisher) *ordersUsecase {
	return &ordersUsecase{
		uow:    uow,
		orders: orders,
		cache:  cache,
		events: events,
		now:    time.Now,
	}
}

// CreateOrder places an order all-or-nothing.
//
// Every line is validated in submission order before any stock changes;
// the cumulative quantity per product is checked against its stock. Stock is
// then decremented conditionally, so a concurrent buyer who got there first
// makes the whole transaction roll back with ErrInsufficientStock.
func (u *ordersUsecase) CreateOrder(ctx context.Context, userID string, items []entity.LineItem) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	var order *entity.Order
	err := u.uow.Do(ctx, func(tx TxStore) error {
		requested := make(map[string]int, len(items))
		products := make(map[string]*catalog.Product, len(items))

		for _, it := range items {
			p, ok := products[it.ProductID]
			if !ok {
				found, err := tx.FindProduct(ctx, it.ProductID)
				if err != nil {
					if errors.Is(err, ErrProductNotFound) {
						return apperr.Wrapf(ErrProductNotFound, "Product %s not found", it.ProductID)
					}
					return fmt.Errorf("failed to load product: %w", err)
				}
				p = found
				products[it.ProductID] = p
			}
			requested[it.ProductID] += it.Quantity
			if !p.InStock(requested[it.ProductID]) {
				return apperr.Wrapf(ErrInsufficientStock, "Not enough stock for %s", p.Title)
			}
		}

		o := &entity.Order{
			ID:        uuid.NewString(),
			UserID:    userID,
			Status:    entity.StatusCompleted,
			CreatedAt: u.now(),
			Items:     make([]entity.OrderItem, 0, len(items)),
		}
		for _, it := range items {
			p := products[it.ProductID]
			ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
			if !ok {
				return apperr.Wrapf(ErrInsufficientStock, "Not enough stock for %s", p.Title)
			}
			o.Items = append(o.Items, entity.OrderItem{
				OrderID:   o.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     p.Price,
			})
		}
		o.Total = o.ComputeTotal()

		if err := tx.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("failed to store order: %w", err)
		}
		if err := tx.ClearCart(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx)
	}
	if u.events != nil {
		u.events.PublishOrderCompleted(ctx, order)
	}
	slog.Info("order completed", "order_id", order.ID, "user_id", userID, "total", order.Total.StringFixed(2))
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (u *ordersUsecase) ListOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	os, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if os == nil {
		os = []entity.Order{}
	}
	return os, nil
}

// GetOrder returns one order of the user. Orders owned by someone else are
// reported as ErrOrderNotFound.
func (u *ordersUsecase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}
