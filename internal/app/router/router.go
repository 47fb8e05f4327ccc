// Package router はアプリケーションのHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "storefront_backend/internal/feature/auth/transport/handler"
	carthandler "storefront_backend/internal/feature/cart/transport/handler"
	cataloghandler "storefront_backend/internal/feature/catalog/transport/handler"
	orderhandler "storefront_backend/internal/feature/orders/transport/handler"
	jwtmw "storefront_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するHTTPハンドラーの集合です。
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Products *cataloghandler.ProductHandler
	Orders   *orderhandler.OrderHandler
	Cart     *carthandler.CartHandler
	Health   gin.HandlerFunc
}

// Options はルーター全体に適用するミドルウェアの設定です。
type Options struct {
	// Sessions はセッショントークンをユーザーIDに解決します。
	Sessions jwtmw.Authenticator
	// AuthLimiter は /auth 配下に適用されます。nilなら制限しません。
	AuthLimiter gin.HandlerFunc
	// CORSAllowOrigins はクッキー付きリクエストを許可するオリジンです。
	CORSAllowOrigins []string
}

func NewRouter(h Handlers, opt Options) *gin.Engine {
	r := gin.Default()

	// ブラウザUIからクッキー付きで呼ばれるため、オリジンを明示して資格情報を許可
	if len(opt.CORSAllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opt.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)

	// 商品一覧・詳細
	r.GET("/products", h.Products.List)
	r.GET("/products/:id", h.Products.Get)

	auth := r.Group("/auth")
	if opt.AuthLimiter != nil {
		auth.Use(opt.AuthLimiter)
	}
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.POST("/logout", jwtmw.SessionRequired(opt.Sessions), h.Auth.Logout)
	}

	// 注文作成はセッションが任意（ボディのuserIdで指定可能）
	r.POST("/orders", jwtmw.OptionalSession(opt.Sessions), h.Orders.Create)

	// 認証必須のルート
	secured := r.Group("/")
	secured.Use(jwtmw.SessionRequired(opt.Sessions))
	{
		secured.GET("/me", h.Auth.Me)
		secured.GET("/orders", h.Orders.List)
		secured.GET("/orders/:id", h.Orders.Get)
		secured.GET("/cart", h.Cart.Get)
		secured.PUT("/cart", h.Cart.Replace)
		secured.DELETE("/cart", h.Cart.Clear)
	}

	return r
}
