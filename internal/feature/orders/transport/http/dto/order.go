// Package dto はordersフィーチャーのHTTPリクエスト・レスポンス型を定義します。
package dto

import (
	"time"

	"storefront_backend/internal/feature/orders/domain/entity"
)

// CreateOrderRequest is the body of POST /orders.
// UserID may be omitted when the request carries a session.
type CreateOrderRequest struct {
	UserID string             `json:"userId"`
	Items  []OrderLineRequest `json:"items" binding:"required,dive"`
}

// OrderLineRequest is one requested line.
type OrderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// LineItems converts the request lines.
func (r CreateOrderRequest) LineItems() []entity.LineItem {
	out := make([]entity.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, entity.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// OrderItemResponse is the JSON view of an order line.
type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderResponse is the JSON view of an order. Money is rendered as numbers.
type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Items     []OrderItemResponse `json:"items"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// FromOrder converts a domain order.
func FromOrder(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		})
	}
	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total.InexactFloat64(),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

// OrderEnvelope wraps a single order.
type OrderEnvelope struct {
	Success bool          `json:"success"`
	Order   OrderResponse `json:"order"`
}

// ListOrdersResponse is the body of GET /orders.
type ListOrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []OrderResponse `json:"orders"`
}
