package handler

import "github.com/astrape/storefront/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

// Request bodies follow the storefront wire contract: camelCase keys, prices
// as plain JSON numbers.

type addItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"  validate:"omitempty,min=1"`
	Title     string  `json:"title"     validate:"required"`
	Price     float64 `json:"price"     validate:"required,gt=0"`
	Image     string  `json:"image"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// getCartResponse is the envelope for GET /cart.
type getCartResponse struct {
	Cart domain.Cart `json:"cart"`
}

// cartMutationResponse is the envelope for all cart mutations: a short status
// message plus the full resulting cart, so the caller resynchronizes in one
// round trip.
type cartMutationResponse struct {
	Message string      `json:"message"`
	Cart    domain.Cart `json:"cart"`
}
