package ports

import (
	"context"

	"github.com/astrape/storefront/internal/core/domain"
)

// AuthService defines registration and login use cases.
type AuthService interface {
	Register(ctx context.Context, email, password, name, role string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
