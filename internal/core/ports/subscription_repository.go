package ports

import (
	"context"

	"github.com/rentora/property-saas/internal/core/domain"
)

// SubscriptionRepository resolves a user's current subscription.
type SubscriptionRepository interface {
	// FindCurrentByUserID returns the most recent subscription owned by the
	// user, or (nil, nil) when the user owns none.
	FindCurrentByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
}
