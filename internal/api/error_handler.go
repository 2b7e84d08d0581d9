package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentora/property-saas/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Type is
// the machine-readable failure code; it is only present for typed admission
// failures.
type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each admission failure code to its HTTP status (429 additionally
//     carries a Retry-After header).
//   - Maps known domain errors from the auth endpoints to their status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "...", "type": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ae *domain.AdmissionError
		if errors.As(err, &ae) {
			if ae.RetryAfter > 0 {
				c.Response().Header().Set("Retry-After", strconv.Itoa(ae.RetryAfter))
			}
			_ = c.JSON(admissionStatus(ae.Code), errorResponse{Error: ae.Message, Type: string(ae.Code)})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// admissionStatus maps a failure code to its transport status.
func admissionStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeAuthenticationRequired, domain.CodeInvalidToken,
		domain.CodeTokenExpired, domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeInsufficientPermissions, domain.CodeAccountDeactivated,
		domain.CodeSubscriptionRequired:
		return http.StatusForbidden
	case domain.CodeUserNotFound:
		return http.StatusNotFound
	case domain.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
