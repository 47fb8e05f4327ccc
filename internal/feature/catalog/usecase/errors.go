package usecase

import "storefront_backend/internal/shared/apperr"

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = apperr.New("ProductNotFound", "product not found")
