package ports

import (
	"context"

	"github.com/rentora/property-saas/internal/core/domain"
)

// AccountValidator resolves an authenticated user id to a live account and
// subscription snapshot and decides admissibility. allowPending selects the
// lenient wording used by checkout flows; see the middleware variants.
type AccountValidator interface {
	Validate(ctx context.Context, userID string, allowPending bool) (*domain.User, *domain.Subscription, error)
}
