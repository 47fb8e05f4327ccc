// Package adapters はcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/catalog/usecase"
)

// productGorm はProductRepositoryインターフェースのgorm実装です。
type productGorm struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productGorm)(nil)

// NewProductRepository は指定されたDB接続でproductGormリポジトリの新しいインスタンスを生成します。
func NewProductRepository(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

// List はID順にすべての商品を返します。
func (r *productGorm) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID は商品を1件返します。
func (r *productGorm) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}
