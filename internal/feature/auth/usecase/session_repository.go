package usecase

import (
	"context"

	"storefront_backend/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked by setting RevokedAt.
	Revoke(ctx context.Context, id string) error

	// RevokeAllByUserID revokes all sessions for a given user.
	RevokeAllByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)

	// TrimToLimit deletes the oldest active sessions of a user until at most
	// keep remain, and returns how many were deleted. The count and the
	// deletes happen atomically.
	TrimToLimit(ctx context.Context, userID string, keep int) (int64, error)
}

// ResetTokenRepository stores password reset tokens keyed by token value.
// Expired tokens are kept until ResetPassword reads them; there is no bulk purge.
type ResetTokenRepository interface {
	// Create stores a token, overwriting any token with the same value.
	Create(ctx context.Context, token *entity.ResetToken) error

	// Find returns the token or ErrResetTokenNotFound.
	Find(ctx context.Context, token string) (*entity.ResetToken, error)

	// Delete removes the token. It returns ErrResetTokenNotFound when nothing
	// was removed, which makes Delete the single point where a token is consumed.
	Delete(ctx context.Context, token string) error
}
