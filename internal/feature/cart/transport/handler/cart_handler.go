// Package handler はcartフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/api"
	"storefront_backend/internal/feature/cart/domain/entity"
	"storefront_backend/internal/feature/cart/transport/http/dto"
	"storefront_backend/internal/feature/cart/usecase"
	jwtmw "storefront_backend/internal/platform/jwt"
	"storefront_backend/internal/shared/apperr"
)

// CartUsecase はカートのユースケースインターフェースを定義します。
type CartUsecase interface {
	GetCart(ctx context.Context, userID string) ([]entity.CartItem, error)
	ReplaceCart(ctx context.Context, userID string, items []entity.CartItem) ([]entity.CartItem, error)
	ClearCart(ctx context.Context, userID string) error
}

// CartHandler はカートのHTTPリクエストを処理します。すべてのルートはセッション必須です。
type CartHandler struct {
	uc CartUsecase
}

// NewCartHandler は指定されたusecaseでCartHandlerの新しいインスタンスを生成します。
func NewCartHandler(uc CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		c.JSON(http.StatusNotFound, api.NewErrorResponse(err))
	case apperr.IsDomain(err):
		c.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
	default:
		slog.Error("cart request failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
	}
}

// Get returns the cart.
//
// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	items, err := h.uc.GetCart(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(items))
}

// Replace overwrites the cart.
//
// PUT /cart
func (h *CartHandler) Replace(c *gin.Context) {
	var req dto.ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.MissingField(""))
		return
	}

	items, err := h.uc.ReplaceCart(c.Request.Context(), jwtmw.UserID(c), req.ToEntities())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(items))
}

// Clear empties the cart.
//
// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.uc.ClearCart(c.Request.Context(), jwtmw.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true})
}
