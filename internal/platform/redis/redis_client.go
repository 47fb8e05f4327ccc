// Package redis opens the optional Redis connection shared by the session
// stores and the product cache.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when no Redis host is set.
var ErrNotConfigured = errors.New("redis host not configured")

const pingTimeout = 3 * time.Second

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port, defaulting the port to 6379.
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(c.Host, port)
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
