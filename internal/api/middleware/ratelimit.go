package middleware

import (
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/api/metrics"
	"github.com/rentora/property-saas/internal/core/domain"
)

const sweepInterval = time.Minute

// KeyFunc derives the rate-limit key for a request. It runs before
// authentication, so it can only use transport-level facts.
type KeyFunc func(r *http.Request) string

// CounterStore is the bounded-memory counter table behind a limiter. Hit
// records one request for key and returns the in-window count together with
// the window's reset time; implementations must be safe for concurrent use.
type CounterStore interface {
	Hit(key string, now time.Time, window time.Duration) (count int, resetAt time.Time)
	// Sweep drops expired entries and returns the number still live.
	Sweep(now time.Time) int
}

// RateLimitConfig configures one limiter instance. Instances are independent:
// each owns its own key space and window and they stack as separate
// middleware stages.
type RateLimitConfig struct {
	// Name labels this instance in metrics (e.g. "api", "login").
	Name string
	// Window is the fixed counting window.
	Window time.Duration
	// MaxRequests is the number of requests admitted per key per window.
	MaxRequests int
	// KeyFunc defaults to ClientIP when nil.
	KeyFunc KeyFunc
	// Store defaults to an in-process mutex-guarded map when nil.
	Store CounterStore
}

// RateLimiter is a fixed-window request counter. Bursts straddling a window
// boundary can admit up to twice MaxRequests; the tradeoff buys O(1) memory
// and O(1) checks per key.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter and starts its background sweep. Call
// Stop on shutdown to release the sweep goroutine.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 100
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	if cfg.Store == nil {
		cfg.Store = newMemoryCounterStore()
	}

	l := &RateLimiter{
		cfg:  cfg,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Middleware returns the admission check for this limiter instance.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			retryAfter, ok := l.allow(l.cfg.KeyFunc(c.Request()))
			if !ok {
				metrics.AdmissionRejectedTotal.WithLabelValues("ratelimit", string(domain.CodeTooManyRequests)).Inc()
				return domain.RateLimitError(retryAfter)
			}
			return next(c)
		}
	}
}

// allow records a hit for key and reports admission. On rejection it returns
// the whole seconds remaining until the window resets, rounded up.
func (l *RateLimiter) allow(key string) (retryAfter int, ok bool) {
	now := l.now()
	count, resetAt := l.cfg.Store.Hit(key, now, l.cfg.Window)
	if count > l.cfg.MaxRequests {
		return int(math.Ceil(resetAt.Sub(now).Seconds())), false
	}
	return 0, true
}

// Stop terminates the background sweep. Safe to call more than once.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			live := l.cfg.Store.Sweep(l.now())
			metrics.RateLimitEntries.WithLabelValues(l.cfg.Name).Set(float64(live))
		}
	}
}

// ClientIP is the default KeyFunc: the first X-Forwarded-For hop, then
// X-Real-IP, then the literal "unknown". Requests with no derivable IP share
// one bucket; this degrades to a global limiter rather than failing closed.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i >= 0 {
			first = xff[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return "unknown"
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// memoryCounterStore is the default CounterStore: a mutex-guarded map. The
// lock is never held across I/O.
type memoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{entries: make(map[string]*rateLimitEntry)}
}

func (s *memoryCounterStore) Hit(key string, now time.Time, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[key]
	if e == nil || !now.Before(e.resetAt) {
		// New window: replace, never carry the old count over.
		e = &rateLimitEntry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return e.count, e.resetAt
	}

	e.count++
	return e.count, e.resetAt
}

func (s *memoryCounterStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
	return len(s.entries)
}
