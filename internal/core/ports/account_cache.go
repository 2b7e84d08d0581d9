package ports

import (
	"context"

	"github.com/rentora/property-saas/internal/core/domain"
)

// AccountCache is the advisory cache in front of the source of record.
// Staleness within the TTL is accepted; implementations own expiry.
type AccountCache interface {
	// Get returns the cached state for userID, or (nil, nil) on a miss.
	Get(ctx context.Context, userID string) (*domain.AccountState, error)
	// Set stores the resolved (user, subscription) pair. A nil subscription
	// is a valid value and must be stored, not treated as a delete.
	Set(ctx context.Context, userID string, user *domain.User, sub *domain.Subscription) error
}
