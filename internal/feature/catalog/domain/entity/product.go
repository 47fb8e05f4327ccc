// Package entity defines the domain models for the catalog feature.
package entity

import "github.com/shopspring/decimal"

// Product is a book offered in the store.
type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Author      string          `gorm:"size:255;not null" json:"author"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Description string          `gorm:"size:1024" json:"description"`
	Image       string          `gorm:"size:255" json:"image"`
}

// InStock reports whether quantity units can be taken from the current stock.
func (p *Product) InStock(quantity int) bool {
	return quantity <= p.Stock
}
