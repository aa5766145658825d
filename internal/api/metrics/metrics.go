// Package metrics defines and registers the custom Prometheus metrics of the
// finance API. Metrics are registered with the default registry on import
// through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// ── Directory metrics ─────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts successful registrations.
var AccountsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered.",
	},
)

// AuthAttemptsTotal counts sign-in and registration attempts.
// Labels:
//   - operation: "register" or "authenticate"
//   - result: "ok", "duplicate_account", "account_not_found", "invalid_credential", "invalid_input"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and sign-in attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// SessionActive is 1 while a session is active, 0 otherwise.
var SessionActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_active",
		Help:      "Whether a session is currently active (1) or not (0).",
	},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// TransactionsAppendedTotal counts ledger appends.
// Label:
//   - type: "income" or "expense"
var TransactionsAppendedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_appended_total",
		Help:      "Total number of transactions appended to the ledger, by type.",
	},
	[]string{"type"},
)

// IdempotentReplaysTotal counts appends answered from a previously seen
// Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_idempotent_replays_total",
		Help:      "Total number of transaction submissions answered from the idempotency store.",
	},
)

// LedgerBalance tracks the ledger balance after the last append.
var LedgerBalance = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_balance",
		Help:      "Ledger balance (income minus expense) after the last append.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// ActivityQueueDepth tracks pending audit records per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of audit records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts audit records dropped because a worker was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of audit records dropped due to a full dispatcher queue.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method, route: echo method and route template (e.g. "/v1/transactions")
//   - code: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "code"},
)
