package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/core/domain"
)

// Context keys used to pass derived facts between pipeline stages. Stages
// never call each other; the request context is their only channel.
const (
	authContextKey           = "auth_context"
	validatedUserKey         = "validated_user"
	validatedSubscriptionKey = "validated_subscription"
)

// AuthContext is the request-scoped identity produced by Authenticate.
// Read-only after creation. UserID is always non-empty; downstream gates use
// its absence (no AuthContext at all) to detect a misordered pipeline.
type AuthContext struct {
	UserID    string
	Role      string
	CompanyID string
	Payload   *domain.TokenPayload
}

// GetAuthContext returns the identity set by Authenticate, or nil when
// authentication has not run on this request.
func GetAuthContext(c echo.Context) *AuthContext {
	ac, _ := c.Get(authContextKey).(*AuthContext)
	return ac
}

// GetValidatedUser returns the account resolved by the account-state
// validator, or nil when validation has not run.
func GetValidatedUser(c echo.Context) *domain.User {
	u, _ := c.Get(validatedUserKey).(*domain.User)
	return u
}

// GetValidatedSubscription returns the subscription resolved by the
// account-state validator, or nil when validation has not run.
func GetValidatedSubscription(c echo.Context) *domain.Subscription {
	s, _ := c.Get(validatedSubscriptionKey).(*domain.Subscription)
	return s
}
