// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "community_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	Appraisals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_appraisals_total",
			Help: "Review and feedback submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_llm_requests_total",
			Help: "Language model calls by outcome",
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "community_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Outcome turns an operation error into a low-cardinality label.
func Outcome(code string, err error) string {
	if err == nil {
		return "success"
	}
	if code == "" {
		return "error"
	}
	return code
}
