package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/core/domain"
)

type stubVerifier struct {
	payload *domain.TokenPayload
	err     error
	calls   int
	token   string
	kind    string
}

func (v *stubVerifier) Verify(token string, kind string) (*domain.TokenPayload, error) {
	v.calls++
	v.token = token
	v.kind = kind
	return v.payload, v.err
}

func newAuthContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	verifier := &stubVerifier{payload: &domain.TokenPayload{
		Subject:   "user_1",
		Role:      "owner",
		CompanyID: "co_1",
	}}

	c, rec := newAuthContext(t, "Bearer good-token")

	called := false
	handler := Authenticate(verifier)(func(c echo.Context) error {
		called = true
		ac := GetAuthContext(c)
		if ac == nil {
			t.Fatalf("auth context not set")
		}
		if ac.UserID != "user_1" || ac.Role != "owner" || ac.CompanyID != "co_1" {
			t.Fatalf("unexpected auth context: %+v", ac)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if verifier.token != "good-token" || verifier.kind != domain.TokenKindAccess {
		t.Fatalf("verifier called with (%q, %q)", verifier.token, verifier.kind)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	c, _ := newAuthContext(t, "")

	handler := Authenticate(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected AUTHENTICATION_REQUIRED, got %v", err)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier should not be called")
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"wrong scheme", "Token abc"},
		{"lowercase scheme", "bearer abc"},
		{"bare scheme", "Bearer"},
		{"scheme with trailing space", "Bearer "},
		{"extra segments", "Bearer abc def"},
		{"token only", "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &stubVerifier{}
			c, _ := newAuthContext(t, tc.header)

			handler := Authenticate(verifier)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			if !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected INVALID_TOKEN, got %v", err)
			}
			if verifier.calls != 0 {
				t.Fatalf("verifier should not be called")
			}
		})
	}
}

func TestAuthenticate_EmptyHeaderValue(t *testing.T) {
	// Header present but empty is a parse failure, not a missing credential.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header["Authorization"] = []string{""}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(&stubVerifier{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN, got %v", err)
	}
}

func TestAuthenticate_RejectedToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("signature mismatch")}
	c, _ := newAuthContext(t, "Bearer stale-token")

	handler := Authenticate(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestAuthenticate_NilPayloadWithoutError(t *testing.T) {
	verifier := &stubVerifier{}
	c, _ := newAuthContext(t, "Bearer whatever")

	handler := Authenticate(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestAuthenticate_OptionalClaimsDefaultEmpty(t *testing.T) {
	verifier := &stubVerifier{payload: &domain.TokenPayload{Subject: "user_2"}}
	c, _ := newAuthContext(t, "Bearer token-without-role")

	handler := Authenticate(verifier)(func(c echo.Context) error {
		ac := GetAuthContext(c)
		if ac.Role != "" || ac.CompanyID != "" {
			t.Fatalf("expected empty optional claims, got %+v", ac)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
