package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentora/property-saas/internal/api/middleware"
	"github.com/rentora/property-saas/internal/core/domain"
	"github.com/rentora/property-saas/internal/core/service"
)

type pipelineUserRepo struct {
	users map[string]*domain.User
}

func (r *pipelineUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *pipelineUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *pipelineUserRepo) ListByCompanyID(_ context.Context, _ string) ([]*domain.User, error) {
	return nil, nil
}

func (r *pipelineUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

type pipelineSubRepo struct {
	subs map[string]*domain.Subscription
}

func (r *pipelineSubRepo) FindCurrentByUserID(_ context.Context, userID string) (*domain.Subscription, error) {
	return r.subs[userID], nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.AccountState, error) { return nil, nil }
func (noopCache) Set(context.Context, string, *domain.User, *domain.Subscription) error {
	return nil
}

// pipelineFixture wires the full admission chain against in-memory
// collaborators: ratelimit → auth → access → account, exactly as the router
// stacks them.
type pipelineFixture struct {
	e      *echo.Echo
	tokens *service.TokenService
	users  *pipelineUserRepo
	subs   *pipelineSubRepo
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	users := &pipelineUserRepo{users: make(map[string]*domain.User)}
	subs := &pipelineSubRepo{subs: make(map[string]*domain.Subscription)}
	tokens := service.NewTokenService("test-secret", time.Hour)
	validator := service.NewAccountService(users, subs, noopCache{}, zerolog.Nop())

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Window:      time.Minute,
		MaxRequests: 10,
	})
	t.Cleanup(limiter.Stop)
	e.Use(limiter.Middleware())

	authenticate := middleware.Authenticate(tokens)

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/strict", ok, authenticate, middleware.ValidateAccount(validator))
	e.GET("/lenient", ok, authenticate, middleware.ValidateAccountLenient(validator))
	e.GET("/managers", ok, authenticate, middleware.RequireRole(domain.RoleOwner, domain.RoleManager))

	return &pipelineFixture{e: e, tokens: tokens, users: users, subs: subs}
}

func (f *pipelineFixture) request(t *testing.T, path, token, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *pipelineFixture) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	f.users.users[user.ID] = user
	token, err := f.tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (msg, typ string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error, body.Type
}

func TestPipeline_NoCredential(t *testing.T) {
	f := newPipelineFixture(t)

	rec := f.request(t, "/strict", "", "1.1.1.1")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if _, typ := decodeError(t, rec); typ != "AUTHENTICATION_REQUIRED" {
		t.Fatalf("expected AUTHENTICATION_REQUIRED, got %s", typ)
	}
}

func TestPipeline_RoleNotAllowed(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "u1", Role: domain.RoleBroker, Active: true})

	rec := f.request(t, "/managers", token, "1.1.1.2")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, typ := decodeError(t, rec); typ != "INSUFFICIENT_PERMISSIONS" {
		t.Fatalf("expected INSUFFICIENT_PERMISSIONS, got %s", typ)
	}
}

func TestPipeline_ExpiredSubscriptionStrict(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "u1", Role: domain.RoleOwner, Active: true})
	f.subs.subs["u1"] = &domain.Subscription{
		UserID:  "u1",
		Status:  domain.SubscriptionActive,
		EndDate: time.Now().Add(-24 * time.Hour),
	}

	rec := f.request(t, "/strict", token, "1.1.1.3")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	msg, typ := decodeError(t, rec)
	if typ != "SUBSCRIPTION_REQUIRED" {
		t.Fatalf("expected SUBSCRIPTION_REQUIRED, got %s", typ)
	}
	if !strings.Contains(msg, "expired") {
		t.Fatalf("expected an expiration notice, got %q", msg)
	}
}

func TestPipeline_PendingSubscriptionLenient(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "u1", Role: domain.RoleOwner, Active: true})
	f.subs.subs["u1"] = &domain.Subscription{
		UserID: "u1",
		Status: domain.SubscriptionPending,
	}

	rec := f.request(t, "/lenient", token, "1.1.1.4")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPipeline_DeactivatedAccount(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "u1", Role: domain.RoleOwner, Active: false})
	f.subs.subs["u1"] = &domain.Subscription{
		UserID: "u1",
		Status: domain.SubscriptionActive,
	}

	rec := f.request(t, "/strict", token, "1.1.1.5")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, typ := decodeError(t, rec); typ != "ACCOUNT_DEACTIVATED" {
		t.Fatalf("expected ACCOUNT_DEACTIVATED, got %s", typ)
	}
}

func TestPipeline_RateLimitBeforeAuth(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.tokenFor(t, &domain.User{ID: "u1", Role: domain.RoleOwner, Active: true})
	f.subs.subs["u1"] = &domain.Subscription{
		UserID:  "u1",
		Status:  domain.SubscriptionActive,
		EndDate: time.Now().Add(24 * time.Hour),
	}

	for i := 0; i < 10; i++ {
		if rec := f.request(t, "/strict", token, "2.2.2.2"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d (%s)", i+1, rec.Code, rec.Body.String())
		}
	}

	rec := f.request(t, "/strict", token, "2.2.2.2")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if _, typ := decodeError(t, rec); typ != "TOO_MANY_REQUESTS" {
		t.Fatalf("expected TOO_MANY_REQUESTS, got %s", typ)
	}

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retryAfter <= 0 || retryAfter > 60 {
		t.Fatalf("bad Retry-After header: %q", rec.Header().Get("Retry-After"))
	}
}
