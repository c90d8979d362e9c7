package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that persists cart activity
// events to the audit store.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single cart activity event.
func (s *activityService) Process(ctx context.Context, in ports.CartActivityInput) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	activity := &domain.CartActivity{
		UserID:    in.UserID,
		Action:    domain.CartAction(in.Action),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Timestamp: ts,
	}

	if err := s.repo.Insert(ctx, activity); err != nil {
		return fmt.Errorf("record cart activity: %w", err)
	}

	s.log.Debug().
		Str("user_id", in.UserID).
		Str("action", in.Action).
		Str("product_id", in.ProductID).
		Msg("cart activity recorded")

	return nil
}
