package ports

import (
	"context"

	"github.com/astrape/storefront/internal/core/domain"
)

// AddItemInput carries all data needed to add a product to a user's cart.
// Title, UnitPrice and Image are the display snapshot captured at add time.
type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int // defaults to 1 when 0
	Title     string
	UnitPrice float64
	Image     string
	// IdempotencyKey, when non-empty, makes retried add requests at-most-once:
	// a replayed key returns the current cart without incrementing again.
	IdempotencyKey string
}

// CartService defines the authoritative cart operations. The user identity is
// always taken from the caller's credential, never from the request body.
type CartService interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	AddItem(ctx context.Context, input AddItemInput) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error)
	// RemoveItem is idempotent: removing an absent line returns the cart unchanged.
	RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error)
	ClearCart(ctx context.Context, userID string) (domain.Cart, error)
}
