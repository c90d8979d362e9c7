package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/api/metrics"
	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

// IdempotencyChecker abstracts the replay-detection store (Redis) used to make
// retried add-item requests at-most-once.
type IdempotencyChecker interface {
	Seen(ctx context.Context, userID, key string) (bool, error)
	Mark(ctx context.Context, userID, key string) error
}

// ActivityDispatcher enqueues audit events for asynchronous persistence.
type ActivityDispatcher interface {
	Enqueue(event ports.CartActivityInput)
}

// CartService implements the authoritative cart operations on top of the
// per-user cart record. All mutations go through CartRepository.Mutate, which
// serializes concurrent writes to the same record.
type CartService struct {
	repo       ports.CartRepository
	idem       IdempotencyChecker
	dispatcher ActivityDispatcher
	log        zerolog.Logger
}

func NewCartService(repo ports.CartRepository, idem IdempotencyChecker, dispatcher ActivityDispatcher, log zerolog.Logger) *CartService {
	return &CartService{repo: repo, idem: idem, dispatcher: dispatcher, log: log}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	return s.repo.Get(ctx, userID)
}

// AddItem merges the product into the user's cart, incrementing the quantity
// when the product is already present. When input.IdempotencyKey has been seen
// before, the current cart is returned without a second increment.
func (s *CartService) AddItem(ctx context.Context, input ports.AddItemInput) (domain.Cart, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	line := domain.CartLine{
		ProductID: input.ProductID,
		Quantity:  quantity,
		Title:     input.Title,
		UnitPrice: input.UnitPrice,
		Image:     input.Image,
	}
	if err := line.Validate(); err != nil {
		metrics.CartMutationErrorsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if input.IdempotencyKey != "" {
		seen, err := s.idem.Seen(ctx, input.UserID, input.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", input.UserID).Msg("idempotency check failed, processing anyway")
		} else if seen {
			s.log.Debug().Str("user_id", input.UserID).Str("idempotency_key", input.IdempotencyKey).Msg("duplicate add-item request, returning current cart")
			metrics.CartIdempotencyTotal.WithLabelValues("hit").Inc()
			return s.repo.Get(ctx, input.UserID)
		}
		metrics.CartIdempotencyTotal.WithLabelValues("miss").Inc()
	}

	cart, err := s.repo.Mutate(ctx, input.UserID, func(c domain.Cart) (domain.Cart, error) {
		return c.Add(line), nil
	})
	if err != nil {
		metrics.CartMutationErrorsTotal.WithLabelValues("storage").Inc()
		s.log.Error().Err(err).Str("user_id", input.UserID).Str("product_id", input.ProductID).Msg("failed to add item")
		return nil, err
	}

	// The key is marked only once the write is durable: a retry of a failed
	// write must re-apply, not replay.
	if input.IdempotencyKey != "" {
		if markErr := s.idem.Mark(ctx, input.UserID, input.IdempotencyKey); markErr != nil {
			s.log.Warn().Err(markErr).Str("user_id", input.UserID).Msg("failed to set idempotency key")
		}
	}

	s.recordActivity(cart, input.UserID, domain.ActionAdd, input.ProductID)
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return cart, nil
}

// UpdateQuantity replaces the quantity of an existing line. A quantity below 1
// is rejected; callers wanting removal must call RemoveItem.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		metrics.CartMutationErrorsTotal.WithLabelValues("validation").Inc()
		return nil, domain.ErrInvalidQuantity
	}

	cart, err := s.repo.Mutate(ctx, userID, func(c domain.Cart) (domain.Cart, error) {
		return c.SetQuantity(productID, quantity)
	})
	if err != nil {
		if err != domain.ErrLineNotFound {
			s.log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to update quantity")
		}
		metrics.CartMutationErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}

	s.recordActivity(cart, userID, domain.ActionUpdate, productID)
	metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	return cart, nil
}

// RemoveItem deletes the line for productID. Removing an absent line is not an
// error; the unchanged cart is returned.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	cart, err := s.repo.Mutate(ctx, userID, func(c domain.Cart) (domain.Cart, error) {
		return c.Remove(productID), nil
	})
	if err != nil {
		metrics.CartMutationErrorsTotal.WithLabelValues("storage").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove item")
		return nil, err
	}

	s.recordActivity(cart, userID, domain.ActionRemove, productID)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	return cart, nil
}

// ClearCart empties the cart unconditionally.
func (s *CartService) ClearCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.Mutate(ctx, userID, func(domain.Cart) (domain.Cart, error) {
		return domain.Cart{}, nil
	})
	if err != nil {
		metrics.CartMutationErrorsTotal.WithLabelValues("storage").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return nil, err
	}

	s.recordActivity(cart, userID, domain.ActionClear, "")
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	return cart, nil
}

// recordActivity enqueues an audit event. The dispatcher is optional and
// delivery is best-effort; mutations never fail because of the audit trail.
func (s *CartService) recordActivity(cart domain.Cart, userID string, action domain.CartAction, productID string) {
	if s.dispatcher == nil {
		return
	}
	quantity := 0
	if line, ok := cart.Find(productID); ok {
		quantity = line.Quantity
	}
	s.dispatcher.Enqueue(ports.CartActivityInput{
		UserID:    userID,
		Action:    string(action),
		ProductID: productID,
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	})
}

func errorReason(err error) string {
	switch err {
	case domain.ErrLineNotFound:
		return "not_found"
	case domain.ErrInvalidQuantity, domain.ErrMissingProductDetails:
		return "validation"
	default:
		return "storage"
	}
}
