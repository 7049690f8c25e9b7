package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutRequests tracks checkout requests by response status
	CheckoutRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_requests_total",
			Help: "Total number of checkout requests handled",
		},
		[]string{"status"},
	)

	// GatewayAttempts tracks individual gateway call attempts by outcome
	GatewayAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_attempts_total",
			Help: "Total number of gateway call attempts",
		},
		[]string{"call", "outcome"},
	)

	// GatewayCalls tracks logical gateway calls by terminal outcome
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Total number of logical gateway calls",
		},
		[]string{"call", "outcome"},
	)

	// GatewayRetryWait tracks the computed wait before retried attempts
	GatewayRetryWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_retry_wait_seconds",
			Help:    "Computed wait before a gateway attempt is retried",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	// DispatchWaiting tracks entries waiting on the outbound dispatcher
	DispatchWaiting = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_waiting_entries",
			Help: "Number of entries waiting on the outbound dispatcher gate",
		},
	)
)
