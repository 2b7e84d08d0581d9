package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentora/property-saas/internal/core/domain"
)

const defaultAccountTTL = 5 * time.Minute

// AccountStateCache stores resolved (user, subscription) pairs in Redis.
// Key format: account_state:<user_id>. Values expire after the configured
// TTL; staleness inside the window is accepted.
type AccountStateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAccountStateCache wraps the given Redis client. A non-positive ttl
// falls back to defaultAccountTTL.
func NewAccountStateCache(client *redis.Client, ttl time.Duration) *AccountStateCache {
	if ttl <= 0 {
		ttl = defaultAccountTTL
	}
	return &AccountStateCache{client: client, ttl: ttl}
}

// Get returns the cached state for userID, or (nil, nil) on a miss.
func (c *AccountStateCache) Get(ctx context.Context, userID string) (*domain.AccountState, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("account cache get: %w", err)
	}

	var state domain.AccountState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("account cache decode: %w", err)
	}
	return &state, nil
}

// Set stores the resolved pair. A nil subscription is stored as-is so repeat
// lookups for subscriptionless accounts stay cache hits until expiry.
func (c *AccountStateCache) Set(ctx context.Context, userID string, user *domain.User, sub *domain.Subscription) error {
	raw, err := json.Marshal(domain.AccountState{
		User:         user,
		Subscription: sub,
		CachedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("account cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

func (c *AccountStateCache) key(userID string) string {
	return "account_state:" + userID
}
