package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentora/property-saas/internal/api/handler"
	"github.com/rentora/property-saas/internal/api/middleware"
	"github.com/rentora/property-saas/internal/core/service"
	"github.com/rentora/property-saas/internal/infrastructure/config"
	mongodb "github.com/rentora/property-saas/internal/infrastructure/db/mongo"
	redisdb "github.com/rentora/property-saas/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with the full admission pipeline and all
// routes registered. The returned cleanup stops the rate limiters' background
// sweeps; call it on shutdown.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, func()) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("rentora"))

	// --- Rate limiters ---
	// The general limiter fronts every route; the login limiter stacks a
	// stricter budget on the credential endpoints.
	apiLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:        "api",
		Window:      cfg.RateLimit.Window,
		MaxRequests: cfg.RateLimit.MaxRequests,
	})
	loginLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:        "login",
		Window:      cfg.RateLimit.LoginWindow,
		MaxRequests: cfg.RateLimit.LoginMaxRequests,
	})
	e.Use(apiLimiter.Middleware())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	subRepo := mongodb.NewSubscriptionRepository(db)
	accountCache := redisdb.NewAccountStateCache(rdb, cfg.Cache.AccountTTL)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService)
	accountService := service.NewAccountService(userRepo, subRepo, accountCache, log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(userRepo)

	authenticate := middleware.Authenticate(tokenService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, loginLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, loginLimiter.Middleware())

	// --- Authenticated surface ---
	e.GET("/me", accountHandler.Me,
		authenticate,
		middleware.ValidateAccount(accountService),
	)
	e.POST("/billing/checkout-session", accountHandler.CreateCheckoutSession,
		authenticate,
		middleware.ValidateAccountLenient(accountService),
	)
	e.GET("/admin/companies/:companyID/seats", accountHandler.ListSeats,
		authenticate,
		middleware.RequireRole("owner", "manager"),
		middleware.RequireCompany(),
		middleware.RequireSameCompany(func(c echo.Context) string {
			return c.Param("companyID")
		}),
		middleware.ValidateAccount(accountService),
	)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	cleanup := func() {
		apiLimiter.Stop()
		loginLimiter.Stop()
	}
	return e, cleanup
}
