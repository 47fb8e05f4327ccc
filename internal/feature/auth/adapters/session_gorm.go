package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/feature/auth/usecase"
)

// sessionGorm is a GORM implementation of the SessionRepository interface.
// It is the fallback used when Redis is unavailable.
type sessionGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionGorm implements SessionRepository.
var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm creates a new instance of sessionGorm.
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db}
}

// Create persists a new session to the database.
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a session by its ID.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Revoke marks a session as revoked by its ID.
func (r *sessionGorm) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// RevokeAllByUserID revokes all sessions for a given user.
func (r *sessionGorm) RevokeAllByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// DeleteExpired removes all expired sessions from storage.
func (r *sessionGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}

// activeFor はユーザーの有効なセッション（未失効・期限内）に絞り込みます。
func activeFor(tx *gorm.DB, userID string, now time.Time) *gorm.DB {
	return tx.Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now)
}

// TrimToLimit deletes the oldest active sessions of userID so that at most keep remain.
// 件数の確認と削除は同一トランザクションで行います。
func (r *sessionGorm) TrimToLimit(ctx context.Context, userID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := activeFor(tx.Model(&SessionModel{}), userID, time.Now()).
			Order("created_at DESC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) <= keep {
			return nil
		}
		result := tx.Where("id IN ?", ids[keep:]).Delete(&SessionModel{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
