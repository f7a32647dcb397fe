package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for RequestsTotal.
const (
	OutcomeData      = "data"
	OutcomeOK        = "ok"
	OutcomeCancelled = "cancelled"
	OutcomeHTTPError = "http_error"
	OutcomeNetwork   = "network_error"
)

var (
	// RequestsTotal counts settled coordinator calls by request key and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_requests_total",
			Help: "Total number of settled backend requests",
		},
		[]string{"key", "outcome"},
	)

	// RequestDuration tracks wall time from issue to settlement
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderdesk_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"key"},
	)

	// SupersededTotal counts calls cancelled because a newer call took their slot
	SupersededTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_requests_superseded_total",
			Help: "Total number of requests superseded by a newer call under the same key",
		},
		[]string{"key"},
	)

	// PendingRequests is the size of the pending-operation table
	PendingRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderdesk_pending_requests",
			Help: "Number of in-flight requests",
		},
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderdesk_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// SearchCacheHits counts searches answered from the in-memory cache
	SearchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_search_cache_hits_total",
			Help: "Total number of searches served from cache",
		},
		[]string{"cache"},
	)
)

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveRequest records one settled call.
func ObserveRequest(key, outcome string, t *Timer) {
	RequestsTotal.WithLabelValues(key, outcome).Inc()
	RequestDuration.WithLabelValues(key).Observe(t.Duration().Seconds())
}
