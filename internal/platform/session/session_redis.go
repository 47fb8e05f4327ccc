// Package session provides Redis-backed credential stores for the auth feature.
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

const (
	// revokedRetention is how long a revoked session stays readable.
	revokedRetention = 24 * time.Hour
	// maxTrimAttempts bounds WATCH retries when logins of the same user race.
	maxTrimAttempts = 10
)

// SessionRedis implements usecase.SessionRepository using Redis.
//
// レイアウト:
//   - <prefix>:<id>        セッション本体（JSON、期限までのTTL付き）
//   - <prefix>:user:<uid>  有効なセッションIDのsorted set（score = 作成時刻のマイクロ秒）
//
// 失効したセッションはsorted setから外します。TTLで消えた本体のIDはTrimToLimitが掃除します。
type SessionRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userSessionsKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", r.prefix, userID)
}

// Create stores the session and indexes it under its user.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	userKey := r.userSessionsKey(session.UserID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.ZAdd(ctx, userKey, redis.Z{
			Score:  float64(session.CreatedAt.UnixMicro()),
			Member: session.ID,
		})
		// 最新のセッションが最も遅く失効するので、インデックスもそれに合わせる
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked and drops it from its user's index.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	session.RevokedAt = &now

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(id), data, revokedRetention)
		pipe.ZRem(ctx, r.userSessionsKey(session.UserID), id)
		return nil
	})
	return err
}

// RevokeAllByUserID revokes every indexed session of a user.
func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.ZRange(ctx, r.userSessionsKey(userID), 0, -1).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
			return err
		}
	}
	return r.client.Del(ctx, r.userSessionsKey(userID)).Err()
}

// DeleteExpired is a no-op: Redis expires session keys by TTL.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// TrimToLimit deletes the oldest sessions of userID until at most keep remain.
// 読み取りから削除までをWATCHで保護し、同じユーザーのログインが競合した場合はやり直します。
func (r *SessionRedis) TrimToLimit(ctx context.Context, userID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	userKey := r.userSessionsKey(userID)

	var deleted int64
	trim := func(tx *redis.Tx) error {
		deleted = 0
		ids, err := tx.ZRange(ctx, userKey, 0, -1).Result() // 古い順
		if err != nil || len(ids) == 0 {
			return err
		}

		exists := make([]*redis.IntCmd, len(ids))
		if _, err := tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				exists[i] = pipe.Exists(ctx, r.sessionKey(id))
			}
			return nil
		}); err != nil {
			return err
		}

		var stale, live []string
		for i, id := range ids {
			if exists[i].Val() == 0 {
				stale = append(stale, id)
			} else {
				live = append(live, id)
			}
		}
		var evict []string
		if len(live) > keep {
			evict = live[:len(live)-keep]
		}
		if len(stale) == 0 && len(evict) == 0 {
			return nil
		}

		members := make([]interface{}, 0, len(stale)+len(evict))
		for _, id := range append(stale, evict...) {
			members = append(members, id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range evict {
				pipe.Del(ctx, r.sessionKey(id))
			}
			pipe.ZRem(ctx, userKey, members...)
			return nil
		})
		if err == nil {
			deleted = int64(len(evict))
		}
		return err
	}

	for attempt := 0; attempt < maxTrimAttempts; attempt++ {
		err := r.client.Watch(ctx, trim, userKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return deleted, nil
	}
	return 0, fmt.Errorf("trim sessions of %s: %w", userID, redis.TxFailedErr)
}
