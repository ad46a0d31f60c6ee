package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Webhooks
	WebhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Gateway notifications by outcome",
		},
		[]string{"outcome"},
	)

	// Approvals
	ApprovalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_decisions_total",
			Help: "Admin approve/reject decisions by action and result kind",
		},
		[]string{"action", "result"},
	)
	LocalSyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transaction_local_sync_failures_total",
			Help: "Decisions accepted by the ledger service but not written locally",
		},
	)

	// Ledger service client
	LedgerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_service_call_duration_seconds",
			Help:    "Latency of ledger service calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	registerOnce sync.Once
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(WebhooksTotal)
		prometheus.MustRegister(ApprovalsTotal)
		prometheus.MustRegister(LocalSyncFailures)
		prometheus.MustRegister(LedgerCallDuration)
	})
}
