package ports

import (
	"context"

	"github.com/rentora/property-saas/internal/core/domain"
)

// UserRepository defines the source-of-record reads the admission pipeline
// and the auth endpoints need.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByCompanyID returns every user scoped to the given tenant.
	ListByCompanyID(ctx context.Context, companyID string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
