package ports

import (
	"context"

	"github.com/astrape/storefront/internal/core/domain"
)

// AuthRepository defines persistence operations for user accounts.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
