package ports

import (
	"context"

	"github.com/astrape/storefront/internal/core/domain"
)

// CartMutation transforms a cart into its successor state. It must be pure:
// the repository may call it more than once when an optimistic write races
// with a concurrent mutation of the same record.
type CartMutation func(domain.Cart) (domain.Cart, error)

// CartRepository persists one cart record per user.
type CartRepository interface {
	// Get returns the user's cart, empty when no record exists yet.
	Get(ctx context.Context, userID string) (domain.Cart, error)

	// Mutate applies fn to the user's current cart and persists the result
	// atomically with respect to concurrent mutations of the same record
	// (compare-and-swap on a record version, retried on conflict). The
	// persisted cart is returned. An error from fn aborts without writing.
	Mutate(ctx context.Context, userID string, fn CartMutation) (domain.Cart, error)
}
