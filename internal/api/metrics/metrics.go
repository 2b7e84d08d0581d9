// Package metrics defines and registers all custom Prometheus metrics for the
// Rentora API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rentora"

// ── Admission pipeline metrics ────────────────────────────────────────────────

// AdmissionRejectedTotal counts requests rejected by a pipeline gate.
// Labels:
//   - gate: "ratelimit", "auth", "access", "account"
//   - code: the machine-readable failure code (e.g. "TOKEN_EXPIRED")
var AdmissionRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admission_rejected_total",
		Help:      "Total number of requests rejected by an admission gate.",
	},
	[]string{"gate", "code"},
)

// AccountCacheTotal counts account-state cache lookups by result.
// Label:
//   - result: "hit" or "miss"
var AccountCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_cache_total",
		Help:      "Total number of account-state cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// RateLimitEntries tracks the current number of live entries per limiter.
// Label:
//   - limiter: the limiter instance name (e.g. "api", "login")
var RateLimitEntries = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_entries",
		Help:      "Current number of tracked keys in each rate limiter.",
	},
	[]string{"limiter"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)
