package ports

import (
	"context"
	"time"

	"github.com/astrape/storefront/internal/core/domain"
)

// CartActivityInput is the DTO handed from the cart service to the activity
// pipeline after a successful mutation.
type CartActivityInput struct {
	UserID    string
	Action    string
	ProductID string
	Quantity  int
	Timestamp time.Time
}

// ActivityRepository persists cart activity to the audit collection.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.CartActivity) error
}

// ActivityService processes queued cart activity events.
type ActivityService interface {
	Process(ctx context.Context, event CartActivityInput) error
}
