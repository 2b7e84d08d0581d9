package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentora/property-saas/internal/api/metrics"
	"github.com/rentora/property-saas/internal/core/domain"
	"github.com/rentora/property-saas/internal/core/ports"
)

type accountService struct {
	users ports.UserRepository
	subs  ports.SubscriptionRepository
	cache ports.AccountCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewAccountService returns the AccountValidator used by the account-state
// middleware. The cache is advisory: read and write failures degrade to the
// source of record instead of failing the request.
func NewAccountService(
	users ports.UserRepository,
	subs ports.SubscriptionRepository,
	cache ports.AccountCache,
	log zerolog.Logger,
) ports.AccountValidator {
	return &accountService{
		users: users,
		subs:  subs,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Validate resolves userID to a live account and subscription and decides
// admissibility. allowPending only changes the wording for canceled
// subscriptions; the admission table itself is shared by both variants.
func (s *accountService) Validate(ctx context.Context, userID string, allowPending bool) (*domain.User, *domain.Subscription, error) {
	// Defends against misordered pipelines that skipped authentication.
	if userID == "" {
		return nil, nil, domain.ErrAuthenticationRequired
	}

	user, sub, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// Deactivation wins over any subscription state.
	if !user.Active {
		return nil, nil, domain.ErrAccountDeactivated
	}

	if err := admitSubscription(sub, allowPending, s.now()); err != nil {
		return nil, nil, err
	}
	return user, sub, nil
}

// resolve performs the cache-aside lookup. On a miss it fetches the account,
// runs the one-level ownership cascade, and writes the result back exactly
// once — a nil subscription included.
func (s *accountService) resolve(ctx context.Context, userID string) (*domain.User, *domain.Subscription, error) {
	state, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("account cache read failed, falling back to store")
	} else if state != nil {
		metrics.AccountCacheTotal.WithLabelValues("hit").Inc()
		return state.User, state.Subscription, nil
	}
	metrics.AccountCacheTotal.WithLabelValues("miss").Inc()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, err
	}

	sub, err := s.subs.FindCurrentByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// Ownership cascade: a team member without a subscription of their own
	// inherits the seat holder's. Exactly one level, never recursive.
	if sub == nil && user.CreatedBy != "" {
		owner, err := s.users.FindByID(ctx, user.CreatedBy)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, err
		}
		if owner != nil {
			sub, err = s.subs.FindCurrentByUserID(ctx, owner.ID)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	if err := s.cache.Set(ctx, userID, user, sub); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("account cache write failed")
	}
	return user, sub, nil
}

// admitSubscription applies the admission table to the computed status.
func admitSubscription(sub *domain.Subscription, allowPending bool, now time.Time) error {
	if sub == nil {
		return domain.ErrSubscriptionRequired
	}

	switch sub.ComputedStatus(now) {
	case domain.SubscriptionActive, domain.SubscriptionPending:
		return nil
	case domain.SubscriptionExpired:
		return domain.SubscriptionError("subscription has expired, please renew")
	case domain.SubscriptionCanceled:
		if allowPending {
			return domain.SubscriptionError("subscription is no longer active, please renew")
		}
		return domain.SubscriptionError("subscription was canceled, please renew")
	default:
		return domain.ErrSubscriptionRequired
	}
}
