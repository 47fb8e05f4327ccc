// Package usecase はカタログ（商品一覧・商品詳細）のビジネスロジックを実装します。
package usecase

import (
	"context"

	"storefront_backend/internal/feature/catalog/domain/entity"
)

// ProductRepository は商品データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ProductRepository interface {
	// List はID順にすべての商品を返します。
	List(ctx context.Context) ([]entity.Product, error)
	// FindByID は商品を1件返します。存在しない場合はErrProductNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Product, error)
}

// catalogUsecase は商品参照のユースケースを定義します。
type catalogUsecase struct {
	products ProductRepository
}

// NewCatalogUsecase はcatalogUsecaseの新しいインスタンスを生成します。
func NewCatalogUsecase(products ProductRepository) *catalogUsecase {
	return &catalogUsecase{products: products}
}

// ListProducts はすべての商品を返します。商品がない場合は空スライスを返します。
func (u *catalogUsecase) ListProducts(ctx context.Context) ([]entity.Product, error) {
	ps, err := u.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []entity.Product{}
	}
	return ps, nil
}

// GetProduct は指定されたIDの商品を返します。
func (u *catalogUsecase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return u.products.FindByID(ctx, id)
}
