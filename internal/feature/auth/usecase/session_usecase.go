package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/shared/randtoken"
)

const (
	// DefaultSessionTTL is the lifetime of a browser session.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultMaxSessionsPerUser caps concurrent sessions; the oldest is evicted.
	DefaultMaxSessionsPerUser = 5
)

// TokenSigner turns a session reference into a tamper-proof token and back.
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenSigner interface {
	Sign(userID, sessionID string, expiresAt time.Time) (string, error)
	Verify(token string) (userID, sessionID string, err error)
}

// SessionConfig tunes session lifetime and per-user limits.
type SessionConfig struct {
	TTL        time.Duration
	MaxPerUser int
}

// SessionUsecase mints and validates server-tracked sessions.
type SessionUsecase struct {
	sessions SessionRepository
	signer   TokenSigner
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewSessionUsecase creates a SessionUsecase. Zero config values fall back to defaults.
func NewSessionUsecase(sessions SessionRepository, signer TokenSigner, cfg SessionConfig) *SessionUsecase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = DefaultMaxSessionsPerUser
	}
	return &SessionUsecase{
		sessions: sessions,
		signer:   signer,
		ttl:      cfg.TTL,
		max:      cfg.MaxPerUser,
		now:      time.Now,
	}
}

// TTL returns the lifetime given to new sessions.
func (u *SessionUsecase) TTL() time.Duration {
	return u.ttl
}

// Start creates a session for userID and returns its signed token.
func (u *SessionUsecase) Start(ctx context.Context, userID, userAgent, ip string) (string, time.Time, error) {
	// 新しいセッションの枠を空けるため、古いものから削除する
	if _, err := u.sessions.TrimToLimit(ctx, userID, u.max-1); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to evict old sessions: %w", err)
	}

	id, err := randtoken.New()
	if err != nil {
		return "", time.Time{}, err
	}
	now := u.now()
	session := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: userAgent,
		IPAddress: ip,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.signer.Sign(userID, id, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, session.ExpiresAt, nil
}

// Authenticate resolves a session token to its user id.
func (u *SessionUsecase) Authenticate(ctx context.Context, token string) (string, error) {
	userID, sessionID, err := u.signer.Verify(token)
	if err != nil {
		return "", ErrInvalidSessionToken
	}

	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.IsRevoked() {
		return "", ErrSessionRevoked
	}
	if u.now().After(session.ExpiresAt) {
		return "", ErrSessionExpired
	}
	if session.UserID != userID {
		return "", ErrInvalidSessionToken
	}
	return userID, nil
}

// End revokes the session behind token.
func (u *SessionUsecase) End(ctx context.Context, token string) error {
	_, sessionID, err := u.signer.Verify(token)
	if err != nil {
		return ErrInvalidSessionToken
	}
	return u.sessions.Revoke(ctx, sessionID)
}

// RevokeAll revokes every session of userID.
func (u *SessionUsecase) RevokeAll(ctx context.Context, userID string) error {
	return u.sessions.RevokeAllByUserID(ctx, userID)
}

// Sweeper purges expired sessions.
// リセットトークンは対象外: 期限切れの判定と削除はResetPasswordが行う。
type Sweeper struct {
	sessions SessionRepository
}

// NewSweeper creates a Sweeper over the session store.
func NewSweeper(sessions SessionRepository) *Sweeper {
	return &Sweeper{sessions: sessions}
}

// Sweep deletes expired sessions and returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
