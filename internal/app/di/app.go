package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront_backend/internal/app/router"
	authadapters "storefront_backend/internal/feature/auth/adapters"
	authhandler "storefront_backend/internal/feature/auth/transport/handler"
	authusecase "storefront_backend/internal/feature/auth/usecase"
	cartadapters "storefront_backend/internal/feature/cart/adapters"
	carthandler "storefront_backend/internal/feature/cart/transport/handler"
	cartusecase "storefront_backend/internal/feature/cart/usecase"
	catalogadapters "storefront_backend/internal/feature/catalog/adapters"
	cataloghandler "storefront_backend/internal/feature/catalog/transport/handler"
	catalogusecase "storefront_backend/internal/feature/catalog/usecase"
	orderadapters "storefront_backend/internal/feature/orders/adapters"
	orderhandler "storefront_backend/internal/feature/orders/transport/handler"
	orderusecase "storefront_backend/internal/feature/orders/usecase"
	"storefront_backend/internal/platform/cache"
	"storefront_backend/internal/platform/config"
	platformdb "storefront_backend/internal/platform/db"
	"storefront_backend/internal/platform/events"
	healthhandler "storefront_backend/internal/platform/http/handler"
	jwtmw "storefront_backend/internal/platform/jwt"
	"storefront_backend/internal/shared/ratelimiter"
)

// Models returns every table the application migrates.
func Models() []any {
	var models []any
	models = append(models, authadapters.Models()...)
	models = append(models, catalogadapters.Models()...)
	models = append(models, orderadapters.Models()...)
	models = append(models, cartadapters.Models()...)
	return models
}

// App is the wired application.
type App struct {
	Router  *gin.Engine
	Sweeper *authusecase.Sweeper
	Limiter *ratelimiter.KeyedLimiter // nil when rate limiting is off
}

// Build wires repositories, usecases and handlers over db. rdb may be nil, in
// which case sessions and reset tokens live in db and products are not cached.
func Build(cfg config.Config, db *gorm.DB, rdb *redis.Client, pub events.Publisher) *App {
	dispatcher := events.NewDispatcher(pub)

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := NewSessionRepository(rdb, db)
	resetRepo := NewResetTokenRepository(rdb, db)
	productRepo := cache.NewCachingProductRepository(rdb, cfg.ProductCacheTTL,
		catalogadapters.NewProductRepository(db), "products")
	cartRepo := cartadapters.NewCartRepository(db)

	// Usecase
	sessionUC := authusecase.NewSessionUsecase(sessionRepo, jwtmw.NewGenerator(cfg.JWTSecret), authusecase.SessionConfig{
		TTL:        cfg.SessionTTL,
		MaxPerUser: cfg.MaxSessionsPerUser,
	})
	authUC := authusecase.NewAuthUsecase(userRepo, resetRepo, dispatcher, sessionUC, authusecase.AuthConfig{
		BcryptCost:    cfg.BcryptCost,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	catalogUC := catalogusecase.NewCatalogUsecase(productRepo)
	ordersUC := orderusecase.NewOrdersUsecase(orderadapters.NewUnitOfWork(db),
		orderadapters.NewOrderRepository(db), productRepo, dispatcher)
	cartUC := cartusecase.NewCartUsecase(cartRepo, productRepo)

	// Handler
	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error { return platformdb.Ping(ctx, db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Auth: authhandler.NewAuthHandler(authUC, sessionUC, authhandler.Config{
			ExposeResetToken: cfg.ExposeResetToken,
			CookieSecure:     cfg.CookieSecure,
		}),
		Products: cataloghandler.NewProductHandler(catalogUC),
		Orders:   orderhandler.NewOrderHandler(ordersUC),
		Cart:     carthandler.NewCartHandler(cartUC),
		Health:   healthhandler.Health(checks),
	}

	opts := router.Options{
		Sessions:         sessionUC,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	}
	// AUTH_RATE_LIMIT <= 0 disables the limiter
	var limiter *ratelimiter.KeyedLimiter
	if cfg.AuthRateLimit > 0 {
		limiter = ratelimiter.NewKeyedLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
		opts.AuthLimiter = limiter.Middleware()
	}
	r := router.NewRouter(handlers, opts)

	return &App{
		Router:  r,
		Sweeper: authusecase.NewSweeper(sessionRepo),
		Limiter: limiter,
	}
}
