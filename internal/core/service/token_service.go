package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rentora/property-saas/internal/core/domain"
)

// Claims promoted out of the open bag into TokenPayload fields.
const (
	claimRole      = "role"
	claimCompanyID = "company_id"
	claimTokenKind = "token_type"
)

// TokenService signs and verifies HS256 access tokens. It satisfies both
// ports.TokenIssuer and ports.TokenVerifier.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints an access token for the user. Role and company id are only
// embedded when present, so the claim bag mirrors the account exactly.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"iat":          now.Unix(),
		"exp":          now.Add(s.ttl).Unix(),
		claimTokenKind: domain.TokenKindAccess,
	}
	if user.Role != "" {
		claims[claimRole] = user.Role
	}
	if user.CompanyID != "" {
		claims[claimCompanyID] = user.CompanyID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token of the given kind, returning its
// payload. Any failure (bad signature, expiry, wrong kind) yields an error;
// callers treat all of them as an unusable credential.
func (s *TokenService) Verify(token string, kind string) (*domain.TokenPayload, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if k, _ := claims[claimTokenKind].(string); k != kind {
		return nil, fmt.Errorf("unexpected token type %q", k)
	}

	return payloadFromClaims(claims), nil
}

func payloadFromClaims(claims jwt.MapClaims) *domain.TokenPayload {
	p := &domain.TokenPayload{Extra: make(map[string]any)}
	p.Subject, _ = claims["sub"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Unix()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		p.IssuedAt = iat.Unix()
	}
	p.Role, _ = claims[claimRole].(string)
	p.CompanyID, _ = claims[claimCompanyID].(string)

	for k, v := range claims {
		switch k {
		case "sub", "exp", "iat", claimRole, claimCompanyID, claimTokenKind:
		default:
			p.Extra[k] = v
		}
	}
	return p
}
