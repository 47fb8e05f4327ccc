// Package dto はcatalogフィーチャーのHTTPレスポンス型を定義します。
package dto

import "storefront_backend/internal/feature/catalog/domain/entity"

// ProductResponse is the JSON view of a product. Price is rendered as a number.
type ProductResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

// FromProduct converts a domain product.
func FromProduct(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Author:      p.Author,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Image:       p.Image,
		Stock:       p.Stock,
	}
}
