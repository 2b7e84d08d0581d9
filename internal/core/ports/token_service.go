package ports

import "github.com/rentora/property-saas/internal/core/domain"

// TokenVerifier verifies a raw bearer credential of the given kind.
// A nil payload or a non-nil error both mean the credential is unusable;
// the authenticator does not distinguish between the two.
type TokenVerifier interface {
	Verify(token string, kind string) (*domain.TokenPayload, error)
}

// TokenIssuer mints signed access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
