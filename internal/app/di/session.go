// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "storefront_backend/internal/feature/auth/adapters"
	"storefront_backend/internal/feature/auth/usecase"
	"storefront_backend/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the SQL store.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionGorm(db)
}

// NewResetTokenRepository picks the reset token store the same way.
func NewResetTokenRepository(rdb *redis.Client, db *gorm.DB) usecase.ResetTokenRepository {
	if rdb != nil {
		return session.NewResetTokenRedis(rdb, "reset")
	}
	return authadapters.NewResetTokenGorm(db)
}
