// Package entity defines the domain models for the cart feature.
package entity

import "time"

// CartItem is one product line in a user's server-side cart.
type CartItem struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	ProductID string    `gorm:"primaryKey;size:36"`
	Quantity  int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Merge combines lines with the same product, summing quantities. The order of
// first appearance is kept.
func Merge(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
