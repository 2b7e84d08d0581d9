package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/api/metrics"
	"github.com/rentora/property-saas/internal/core/domain"
	"github.com/rentora/property-saas/internal/core/ports"
)

// Authenticate verifies the bearer credential and injects the AuthContext.
// Exactly one instance runs per request, before any access or account gate.
//
// The header must be exactly "Bearer <token>": split on whitespace, two
// parts, case-sensitive scheme. A missing header is a different failure
// (AUTHENTICATION_REQUIRED) than a malformed one (INVALID_TOKEN); a
// well-formed header whose token the verifier rejects is TOKEN_EXPIRED.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, verifier); err != nil {
				metrics.AdmissionRejectedTotal.WithLabelValues("auth", string(err.Code)).Inc()
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, verifier ports.TokenVerifier) *domain.AdmissionError {
	header, present := bearerHeader(c)
	if !present {
		return domain.ErrAuthenticationRequired
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.ErrInvalidToken
	}

	payload, err := verifier.Verify(parts[1], domain.TokenKindAccess)
	if err != nil || payload == nil {
		return domain.ErrTokenExpired
	}

	c.Set(authContextKey, &AuthContext{
		UserID:    payload.Subject,
		Role:      payload.Role,
		CompanyID: payload.CompanyID,
		Payload:   payload,
	})
	return nil
}

// bearerHeader distinguishes an absent Authorization header from one that is
// present but empty; the two map to different failures.
func bearerHeader(c echo.Context) (value string, present bool) {
	values := c.Request().Header.Values("Authorization")
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
