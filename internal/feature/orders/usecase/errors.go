package usecase

import "storefront_backend/internal/shared/apperr"

var (
	ErrEmptyCart         = apperr.New("EmptyCart", "order has no items")
	ErrInvalidQuantity   = apperr.New("InvalidQuantity", "quantity must be at least 1")
	ErrProductNotFound   = apperr.New("ProductNotFound", "product not found")
	ErrInsufficientStock = apperr.New("InsufficientStock", "insufficient stock")
	ErrOrderNotFound     = apperr.New("OrderNotFound", "order not found")
)
