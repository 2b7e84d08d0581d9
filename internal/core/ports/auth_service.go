package ports

import (
	"context"

	"github.com/rentora/property-saas/internal/core/domain"
)

// AuthService implements registration and login for the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, email, password, role, companyID string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
