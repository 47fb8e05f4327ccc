// Package ratelimiter はクライアントごとのリクエスト頻度を制限します。
package ratelimiter

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"storefront_backend/internal/api"
)

// idleTTL is how long an unused limiter is kept before it is dropped.
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter は、キー（クライアントIPなど）ごとにトークンバケットを保持します。
type KeyedLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*entry
	now     func() time.Time
}

// NewKeyedLimiter は1秒あたりrps件、最大burst件を許可するKeyedLimiterを生成します。
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow はkeyのリクエストを1件消費し、上限内であればtrueを返します。
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Prune drops limiters that have been idle longer than idleTTL and returns how
// many were removed.
func (l *KeyedLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idleTTL)
	removed := 0
	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware はクライアントIP単位でリクエストを制限するginミドルウェアを返します。
// 上限を超えた場合は429 TooManyRequestsで中断します。
func (l *KeyedLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			slog.Warn("rate limit exceeded", "remote_addr", ip, "path", c.FullPath())
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{
				Error: "too many requests",
				Code:  "TooManyRequests",
			})
			return
		}
		c.Next()
	}
}
