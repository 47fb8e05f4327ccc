// Package usecase はサーバー側カートのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront_backend/internal/feature/cart/domain/entity"
	catalog "storefront_backend/internal/feature/catalog/domain/entity"
	catalogusecase "storefront_backend/internal/feature/catalog/usecase"
	"storefront_backend/internal/shared/apperr"
)

// CartRepository はカートの永続化層を抽象化します。
type CartRepository interface {
	// ListByUser はユーザーのカート行を返します。
	ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error)
	// Replace はユーザーのカートをitemsで置き換えます。
	Replace(ctx context.Context, userID string, items []entity.CartItem) error
	// Clear はユーザーのカートを空にします。
	Clear(ctx context.Context, userID string) error
}

// ProductFinder looks up catalog products.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*catalog.Product, error)
}

type cartUsecase struct {
	carts    CartRepository
	products ProductFinder
}

// NewCartUsecase はcartUsecaseの新しいインスタンスを生成します。
func NewCartUsecase(carts CartRepository, products ProductFinder) *cartUsecase {
	return &cartUsecase{carts: carts, products: products}
}

// GetCart returns the user's cart. An empty cart is an empty slice.
func (u *cartUsecase) GetCart(ctx context.Context, userID string) ([]entity.CartItem, error) {
	items, err := u.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.CartItem{}
	}
	return items, nil
}

// ReplaceCart validates items, merges duplicate products and stores the result.
// Stock is not reserved; it is checked when the order is placed.
func (u *cartUsecase) ReplaceCart(ctx context.Context, userID string, items []entity.CartItem) ([]entity.CartItem, error) {
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	merged := entity.Merge(items)
	for i := range merged {
		merged[i].UserID = userID
		if _, err := u.products.FindByID(ctx, merged[i].ProductID); err != nil {
			if errors.Is(err, catalogusecase.ErrProductNotFound) {
				return nil, apperr.Wrapf(ErrProductNotFound, "Product %s not found", merged[i].ProductID)
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
	}

	if err := u.carts.Replace(ctx, userID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// ClearCart empties the user's cart.
func (u *cartUsecase) ClearCart(ctx context.Context, userID string) error {
	return u.carts.Clear(ctx, userID)
}
