package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"storefront_backend/internal/app/di"
	catalogadapters "storefront_backend/internal/feature/catalog/adapters"
	"storefront_backend/internal/platform/config"
	platformdb "storefront_backend/internal/platform/db"
	platformredis "storefront_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecretGenerated {
		slog.Warn("JWT_SECRET is not set; sessions will not survive a restart. Set a strong secret in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := platformdb.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if err := platformdb.Migrate(db, di.Models()...); err != nil {
		log.Fatalf("%v", err)
	}
	if err := catalogadapters.Seed(ctx, db, catalogadapters.SeedProducts()); err != nil {
		log.Fatalf("%v", err)
	}
	slog.Info("database ready", "driver", cfg.DB.Driver)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache; sessions stored in the database.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Events
	pub := di.NewPublisher(cfg.AMQPURL, logger)
	defer func() {
		if err := pub.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}()

	app := di.Build(cfg, db, rdb, pub)

	go runSweeper(ctx, app, cfg.SweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// runSweeper removes expired sessions and reset tokens until ctx is done.
func runSweeper(ctx context.Context, app *di.App, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.Sweeper.Sweep(ctx)
			if err != nil {
				slog.Warn("sweep failed", "error", err)
			}
			if n > 0 {
				slog.Info("expired credentials removed", "count", n)
			}
			if app.Limiter != nil {
				app.Limiter.Prune()
			}
		}
	}
}
