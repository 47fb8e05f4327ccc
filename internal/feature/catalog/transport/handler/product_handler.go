// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/api"
	"storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/catalog/transport/http/dto"
	"storefront_backend/internal/feature/catalog/usecase"
)

// CatalogUsecase は商品参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CatalogUsecase interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}

// ProductHandler は商品のHTTPリクエストを処理します。
type ProductHandler struct {
	uc CatalogUsecase
}

// NewProductHandler は指定されたusecaseでProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(uc CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List はすべての商品をJSON配列で返します。
//
// エンドポイント例:
// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.uc.ListProducts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
		return
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

// Get は1件の商品を返します。
//
// エンドポイント例:
// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, api.NewErrorResponse(err))
			return
		}
		slog.Error("failed to get product", "product_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, dto.FromProduct(*p))
}
