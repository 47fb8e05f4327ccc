package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/feature/auth/usecase"
)

// expiredRetention keeps a token readable long after its expiry. Expired
// tokens are only removed when ResetPassword reads them, so a late attempt is
// reported as expired instead of unknown.
const expiredRetention = 30 * 24 * time.Hour

// ResetTokenRedis implements usecase.ResetTokenRepository using Redis.
type ResetTokenRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.ResetTokenRepository = (*ResetTokenRedis)(nil)

// NewResetTokenRedis creates a new ResetTokenRedis instance.
func NewResetTokenRedis(client *redis.Client, prefix string) *ResetTokenRedis {
	return &ResetTokenRedis{client: client, prefix: prefix}
}

func (r *ResetTokenRedis) key(token string) string {
	return fmt.Sprintf("%s:%s", r.prefix, token)
}

// Create stores the token. The key outlives the token's expiry by expiredRetention.
func (r *ResetTokenRedis) Create(ctx context.Context, t *entity.ResetToken) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal reset token: %w", err)
	}
	ttl := time.Until(t.ExpiresAt) + expiredRetention
	if ttl <= 0 {
		return fmt.Errorf("reset token expired %v ago", -time.Until(t.ExpiresAt))
	}
	return r.client.Set(ctx, r.key(t.Token), data, ttl).Err()
}

// Find returns the token or usecase.ErrResetTokenNotFound.
func (r *ResetTokenRedis) Find(ctx context.Context, token string) (*entity.ResetToken, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrResetTokenNotFound
		}
		return nil, err
	}
	var t entity.ResetToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reset token: %w", err)
	}
	return &t, nil
}

// Delete removes the token. DEL is atomic, so only one caller sees a count of 1.
func (r *ResetTokenRedis) Delete(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, r.key(token)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrResetTokenNotFound
	}
	return nil
}
