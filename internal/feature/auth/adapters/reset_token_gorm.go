package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/feature/auth/usecase"
)

// resetTokenGorm stores reset tokens in the reset_tokens table.
type resetTokenGorm struct {
	db *gorm.DB
}

var _ usecase.ResetTokenRepository = (*resetTokenGorm)(nil)

// NewResetTokenGorm creates a GORM-backed ResetTokenRepository.
func NewResetTokenGorm(db *gorm.DB) *resetTokenGorm {
	return &resetTokenGorm{db: db}
}

// Create inserts or overwrites the token row.
func (r *resetTokenGorm) Create(ctx context.Context, t *entity.ResetToken) error {
	model := ResetTokenModel{Token: t.Token, Email: t.Email, ExpiresAt: t.ExpiresAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model).Error
}

// Find returns the token or usecase.ErrResetTokenNotFound.
func (r *resetTokenGorm) Find(ctx context.Context, token string) (*entity.ResetToken, error) {
	var m ResetTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrResetTokenNotFound
		}
		return nil, err
	}
	return &entity.ResetToken{Token: m.Token, Email: m.Email, ExpiresAt: m.ExpiresAt}, nil
}

// Delete removes the token; zero affected rows means another caller consumed it first.
func (r *resetTokenGorm) Delete(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Delete(&ResetTokenModel{}, "token = ?", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrResetTokenNotFound
	}
	return nil
}
