package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reputation Metrics
var (
	// VouchAttemptsTotal tracks vouch attempts by outcome
	VouchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_vouch_attempts_total",
			Help: "Total vouch attempts by outcome (accepted/invalid_reason/self/bot_target/cooldown)",
		},
		[]string{"status"},
	)

	// AdminActionsTotal tracks administrative overrides by action and result
	AdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_admin_actions_total",
			Help: "Total administrative overrides by action and result (success/denied/error)",
		},
		[]string{"action", "result"},
	)

	// LedgerUsers tracks the number of users holding a balance
	LedgerUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vouchbot_ledger_users",
			Help: "Number of users with a reputation balance",
		},
	)

	// LedgerReputation tracks the sum of all balances
	LedgerReputation = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vouchbot_ledger_reputation",
			Help: "Sum of all reputation balances",
		},
	)
)

// Storage Metrics
var (
	// StoreOpsTotal tracks store operations by backend, operation and status
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_store_operations_total",
			Help: "Total store operations by backend, operation and status",
		},
		[]string{"backend", "operation", "status"},
	)

	// StoreOpDuration tracks store operation latency in seconds
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vouchbot_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend", "operation"},
	)

	// StoreRetriesTotal tracks retried store operations
	StoreRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_store_retries_total",
			Help: "Total store operation retries by backend and operation",
		},
		[]string{"backend", "operation"},
	)
)

// Discord Metrics
var (
	// CommandsTotal tracks slash command invocations by command and result
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_commands_total",
			Help: "Total slash command invocations by command and result (ok/error/panic)",
		},
		[]string{"command", "result"},
	)

	// CommandDuration tracks slash command handling latency
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vouchbot_command_duration_seconds",
			Help:    "Slash command handling duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"command"},
	)

	// ComponentsTotal tracks button interactions by action
	ComponentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_components_total",
			Help: "Total button interactions by action",
		},
		[]string{"action"},
	)
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks status server requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchbot_http_requests_total",
			Help: "Total status server requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
