package usecase

import "storefront_backend/internal/shared/apperr"

var (
	ErrInvalidQuantity = apperr.New("InvalidQuantity", "quantity must be at least 1")
	ErrProductNotFound = apperr.New("ProductNotFound", "product not found")
)
