// Package dto はcartフィーチャーのHTTPリクエスト・レスポンス型を定義します。
package dto

import "storefront_backend/internal/feature/cart/domain/entity"

// CartLine is one cart line on the wire.
type CartLine struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// ReplaceCartRequest is the body of PUT /cart.
type ReplaceCartRequest struct {
	Items []CartLine `json:"items" binding:"required,dive"`
}

// ToEntities converts the request lines.
func (r ReplaceCartRequest) ToEntities() []entity.CartItem {
	out := make([]entity.CartItem, 0, len(r.Items))
	for _, l := range r.Items {
		out = append(out, entity.CartItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// CartResponse is the body of GET and PUT /cart.
type CartResponse struct {
	Success bool       `json:"success"`
	Items   []CartLine `json:"items"`
}

// FromEntities builds a CartResponse.
func FromEntities(items []entity.CartItem) CartResponse {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return CartResponse{Success: true, Items: lines}
}
