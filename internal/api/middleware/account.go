package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/api/metrics"
	"github.com/rentora/property-saas/internal/core/domain"
	"github.com/rentora/property-saas/internal/core/ports"
)

// ValidateAccount is the strict account-state gate: it resolves the caller's
// live account and subscription and rejects deactivated accounts and unusable
// subscriptions. Runs after Authenticate.
func ValidateAccount(validator ports.AccountValidator) echo.MiddlewareFunc {
	return accountGate(validator, false)
}

// ValidateAccountLenient is the variant used by checkout and payment flows.
// It shares the strict admission table but words canceled-subscription
// rejections for a caller who is mid-renewal.
func ValidateAccountLenient(validator ports.AccountValidator) echo.MiddlewareFunc {
	return accountGate(validator, true)
}

func accountGate(validator ports.AccountValidator, allowPending bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := GetAuthContext(c)
			userID := ""
			if ac != nil {
				userID = ac.UserID
			}

			user, sub, err := validator.Validate(c.Request().Context(), userID, allowPending)
			if err != nil {
				var ae *domain.AdmissionError
				if errors.As(err, &ae) {
					metrics.AdmissionRejectedTotal.WithLabelValues("account", string(ae.Code)).Inc()
				}
				return err
			}

			c.Set(validatedUserKey, user)
			c.Set(validatedSubscriptionKey, sub)
			return next(c)
		}
	}
}
