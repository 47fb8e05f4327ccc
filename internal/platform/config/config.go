// Package config は環境変数からサーバー全体の設定を読み込みます。
package config

import (
	"log/slog"
	"strings"
	"time"

	"storefront_backend/internal/platform/db"
	"storefront_backend/internal/platform/redis"
	"storefront_backend/internal/shared/env"
	"storefront_backend/internal/shared/randtoken"
)

// Config はサーバーの起動に必要なすべての設定を保持します。
type Config struct {
	Port string

	DB    db.Config
	Redis redis.Config

	JWTSecret          string
	JWTSecretGenerated bool

	SessionTTL         time.Duration
	ResetTokenTTL      time.Duration
	MaxSessionsPerUser int
	BcryptCost         int
	ExposeResetToken   bool
	CookieSecure       bool

	CORSAllowOrigins []string
	AMQPURL          string
	ProductCacheTTL  time.Duration

	AuthRateLimit float64
	AuthRateBurst int

	SweepInterval time.Duration
	LogLevel      slog.Level
}

// Load は環境変数から設定を読み込み、未設定の項目には既定値を使います。
// JWT_SECRETが未設定の場合はプロセスごとのランダムな値を生成します。
func Load() (Config, error) {
	cfg := Config{
		Port:               env.Str("PORT", "8080"),
		DB:                 db.LoadConfigFromEnv(),
		Redis:              redis.Config{Host: env.Str("REDIS_HOST", ""), Port: env.Str("REDIS_PORT", ""), Password: env.Str("REDIS_PASSWORD", "")},
		JWTSecret:          env.Str("JWT_SECRET", ""),
		SessionTTL:         env.Duration("SESSION_TTL", 7*24*time.Hour),
		ResetTokenTTL:      env.Duration("RESET_TOKEN_TTL", time.Hour),
		MaxSessionsPerUser: env.Int("MAX_SESSIONS_PER_USER", 5),
		BcryptCost:         env.Int("BCRYPT_COST", 10),
		ExposeResetToken:   env.Bool("EXPOSE_RESET_TOKEN", true),
		CookieSecure:       env.Bool("COOKIE_SECURE", false),
		CORSAllowOrigins:   env.List("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		AMQPURL:            env.Str("AMQP_URL", ""),
		ProductCacheTTL:    env.Duration("PRODUCT_CACHE_TTL", 30*time.Second),
		AuthRateLimit:      env.Float("AUTH_RATE_LIMIT", 5),
		AuthRateBurst:      env.Int("AUTH_RATE_BURST", 10),
		SweepInterval:      env.Duration("SWEEP_INTERVAL", 10*time.Minute),
		LogLevel:           ParseLevel(env.Str("LOG_LEVEL", "info")),
	}

	if cfg.JWTSecret == "" {
		secret, err := randtoken.New()
		if err != nil {
			return Config{}, err
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretGenerated = true
	}
	return cfg, nil
}

// ParseLevel maps debug|info|warn|error to a slog level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
