// Package entity defines the domain models for the orders feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is a placed order. Items keep the unit price at purchase time.
type Order struct {
	ID        string          `gorm:"primaryKey;size:36"`
	UserID    string          `gorm:"size:36;not null;index"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    OrderStatus     `gorm:"size:16;not null"`
	CreatedAt time.Time       `gorm:"index"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:36;not null;index"`
	ProductID string          `gorm:"size:36;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// LineItem is a requested product and quantity.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Subtotal returns Price * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemCount returns the total number of units in the order.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ComputeTotal sums the line subtotals.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
