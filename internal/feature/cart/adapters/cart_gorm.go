// Package adapters はcartフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"storefront_backend/internal/feature/cart/domain/entity"
	"storefront_backend/internal/feature/cart/usecase"
)

// Models returns the tables owned by the cart feature.
func Models() []any {
	return []any{&entity.CartItem{}}
}

// cartGorm はCartRepositoryインターフェースのgorm実装です。
type cartGorm struct {
	db *gorm.DB
}

var _ usecase.CartRepository = (*cartGorm)(nil)

// NewCartRepository は指定されたDB接続でcartGormリポジトリの新しいインスタンスを生成します。
func NewCartRepository(db *gorm.DB) *cartGorm {
	return &cartGorm{db: db}
}

// ListByUser は商品ID順にユーザーのカート行を返します。
func (r *cartGorm) ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("product_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Replace deletes the user's lines and inserts items in one transaction.
func (r *cartGorm) Replace(ctx context.Context, userID string, items []entity.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entity.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Clear はユーザーのカートを空にします。
func (r *cartGorm) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.CartItem{}).Error
}
