package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP metrics are labeled by route pattern, not raw path; see RouteLabel.
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_http_requests_total",
			Help: "HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdb_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Pipeline metrics cover the three ask stages: translation, safety review,
// and execution.
var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_translations_total",
			Help: "Natural-language translation attempts by outcome.",
		},
		[]string{"outcome"},
	)
	translationLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdb_translation_latency_seconds",
			Help:    "Generation-service round-trip latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	validationVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_validation_verdicts_total",
			Help: "Safety validator verdicts by outcome.",
		},
		[]string{"verdict"},
	)
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_queries_total",
			Help: "Executed read queries by outcome.",
		},
		[]string{"outcome"},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdb_query_duration_seconds",
			Help:    "Read query execution latency.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		translationsTotal,
		translationLatencySeconds,
		validationVerdictsTotal,
		queriesTotal,
		queryDurationSeconds,
	)
}

func ObserveTranslation(ok bool, elapsed time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	translationsTotal.WithLabelValues(outcome).Inc()
	translationLatencySeconds.Observe(elapsed.Seconds())
}

func ObserveValidation(accepted bool) {
	verdict := "accepted"
	if !accepted {
		verdict = "rejected"
	}
	validationVerdictsTotal.WithLabelValues(verdict).Inc()
}

func ObserveQuery(ok bool, elapsed time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDurationSeconds.Observe(elapsed.Seconds())
}
