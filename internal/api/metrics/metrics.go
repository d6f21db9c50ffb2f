// Package metrics defines and registers all custom Prometheus metrics for the
// restaurant API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokensIssuedTotal counts session tokens minted by POST /jwt.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// GuardRejectionsTotal counts requests stopped by an access guard.
// Labels:
//   - guard: "authenticate", "admin" or "self"
//   - reason: short description (e.g. "missing_header", "invalid_token", "not_admin")
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by an access guard.",
	},
	[]string{"guard", "reason"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutTransitionsTotal counts checkout attempts reaching a state.
// Labels:
//   - state: "authorized", "settled" or "failed"
//   - reason: failure reason, empty on success
var CheckoutTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_transitions_total",
		Help:      "Total number of checkout state transitions, by target state.",
	},
	[]string{"state", "reason"},
)

// GatewayDuration measures the payment authorization round-trip.
// Label:
//   - outcome: "ok", "declined", "timeout" or "error"
var GatewayDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_gateway_duration_seconds",
		Help:      "Duration of payment intent creation at the card gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// SettlementsTotal counts recorded payments.
// Labels:
//   - mode: "transaction" or "sequential"
//   - cleanup: "complete", "pending" or "reconcile"
var SettlementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of payments recorded, by settlement mode and cart cleanup result.",
	},
	[]string{"mode", "cleanup"},
)

// ── Cart cleanup metrics ──────────────────────────────────────────────────────

// CleanupQueueDepth tracks the number of cleanup jobs waiting in each worker channel.
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_cleanup_queue_depth",
		Help:      "Current number of cart cleanup jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// CleanupJobsTotal counts processed cleanup jobs.
// Label:
//   - result: "ok", "error" or "dropped"
var CleanupJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_cleanup_jobs_total",
		Help:      "Total number of cart cleanup jobs, by result.",
	},
	[]string{"result"},
)
