// Package handler はordersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/api"
	"storefront_backend/internal/feature/orders/domain/entity"
	"storefront_backend/internal/feature/orders/transport/http/dto"
	"storefront_backend/internal/feature/orders/usecase"
	jwtmw "storefront_backend/internal/platform/jwt"
	"storefront_backend/internal/shared/apperr"
)

// ErrUserMismatch is returned when the session user differs from the userId in the body.
var ErrUserMismatch = apperr.New("UserMismatch", "userId does not match the signed-in user")

// OrdersUsecase は注文のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type OrdersUsecase interface {
	CreateOrder(ctx context.Context, userID string, items []entity.LineItem) (*entity.Order, error)
	ListOrders(ctx context.Context, userID string) ([]entity.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error)
}

// OrderHandler は注文のHTTPリクエストを処理します。
type OrderHandler struct {
	uc OrdersUsecase
}

// NewOrderHandler は指定されたusecaseでOrderHandlerの新しいインスタンスを生成します。
func NewOrderHandler(uc OrdersUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// statusFor maps order errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound), errors.Is(err, usecase.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserMismatch):
		return http.StatusForbidden
	case apperr.IsDomain(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *OrderHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("order request failed", "error", err)
	} else {
		slog.Warn("order request rejected", "remote_addr", c.ClientIP(), "error", err)
	}
	c.JSON(status, api.NewErrorResponse(err))
}

// Create places an order.
//
// POST /orders
// The body userId is required unless a session is present; when both are
// present they must match.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.MissingField(""))
		return
	}

	userID := req.UserID
	if sessionUser := jwtmw.UserID(c); sessionUser != "" {
		if userID != "" && userID != sessionUser {
			h.fail(c, ErrUserMismatch)
			return
		}
		userID = sessionUser
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, api.MissingField("userId"))
		return
	}

	order, err := h.uc.CreateOrder(c.Request.Context(), userID, req.LineItems())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderEnvelope{Success: true, Order: dto.FromOrder(order)})
}

// List returns the signed-in user's orders, newest first.
//
// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.uc.ListOrders(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, dto.FromOrder(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.ListOrdersResponse{Success: true, Orders: out})
}

// Get returns one order of the signed-in user.
//
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.uc.GetOrder(c.Request.Context(), jwtmw.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Success: true, Order: dto.FromOrder(order)})
}
