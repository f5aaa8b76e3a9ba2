// Package metrics defines the custom Prometheus metrics of the back-office API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; echoprometheus exposes them together with the request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// Outcome labels shared by the counters below.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeDenied    = "denied"
	OutcomeNotFound  = "not_found"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
	OutcomeLimited   = "rate_limited"
	OutcomeCacheHit  = "hit"
	OutcomeCacheMiss = "miss"
)

// ── Server actions ────────────────────────────────────────────────────────────

// ActionsTotal counts server actions by outcome.
// Labels:
//   - resource: "clients", "products", "payments", "orders", "services", "users", "auth"
//   - action: "create", "update", "delete", "update_status", ...
//   - outcome: one of the Outcome* constants
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of server actions, by resource, action and outcome.",
	},
	[]string{"resource", "action", "outcome"},
)

// ── View cache ────────────────────────────────────────────────────────────────

// ViewCacheTotal counts list view cache lookups.
// Label:
//   - result: "hit" or "miss"
var ViewCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_cache_total",
		Help:      "Total number of list view cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ViewInvalidationsTotal counts revalidated view paths.
var ViewInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_invalidations_total",
		Help:      "Total number of view paths revalidated after a mutation.",
	},
)

// ── Contact form ──────────────────────────────────────────────────────────────

// ContactMessagesTotal counts contact form submissions.
// Label:
//   - outcome: "ok", "rate_limited", "invalid" or "error"
var ContactMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_messages_total",
		Help:      "Total number of contact form submissions, by outcome.",
	},
	[]string{"outcome"},
)

// ExportDuration measures how long rendering an XLSX export takes.
var ExportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Duration of payment export rendering.",
		Buckets:   prometheus.DefBuckets,
	},
)
