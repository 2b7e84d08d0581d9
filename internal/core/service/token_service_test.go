package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rentora/property-saas/internal/core/domain"
)

func TestTokenService_IssueVerifyRoundtrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	user := &domain.User{ID: "u1", Role: domain.RoleOwner, CompanyID: "co_1"}

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	payload, err := svc.Verify(token, domain.TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payload.Subject != "u1" {
		t.Fatalf("unexpected subject: %s", payload.Subject)
	}
	if payload.Role != domain.RoleOwner || payload.CompanyID != "co_1" {
		t.Fatalf("claims not carried: %+v", payload)
	}
	if payload.ExpiresAt <= payload.IssuedAt {
		t.Fatalf("expiry not after issuance: %d <= %d", payload.ExpiresAt, payload.IssuedAt)
	}
}

func TestTokenService_OptionalClaimsOmitted(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(&domain.User{ID: "u2"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	payload, err := svc.Verify(token, domain.TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payload.Role != "" || payload.CompanyID != "" {
		t.Fatalf("expected empty optional claims, got %+v", payload)
	}
}

func TestTokenService_ExtraClaimsLandInBag(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	claims := jwt.MapClaims{
		"sub":        "u3",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"iat":        time.Now().Unix(),
		"token_type": domain.TokenKindAccess,
		"plan_hint":  "pro",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	payload, err := svc.Verify(raw, domain.TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payload.Extra["plan_hint"] != "pro" {
		t.Fatalf("extension claim missing from bag: %+v", payload.Extra)
	}
	if _, ok := payload.Extra["sub"]; ok {
		t.Fatalf("promoted claim duplicated in bag")
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token, domain.TokenKindAccess); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Verify(token, domain.TokenKindAccess); err == nil {
		t.Fatalf("expected signature mismatch to fail verification")
	}
}

func TestTokenService_WrongKind(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	claims := jwt.MapClaims{
		"sub":        "u1",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"iat":        time.Now().Unix(),
		"token_type": "refresh",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(raw, domain.TokenKindAccess); err == nil {
		t.Fatalf("expected wrong token kind to fail verification")
	}
}

func TestTokenService_WrongAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(raw, domain.TokenKindAccess); err == nil {
		t.Fatalf("expected non-HS256 token to fail verification")
	}
}
