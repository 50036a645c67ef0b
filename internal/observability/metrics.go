// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Account fetch metrics
	AccountFetches      *prometheus.CounterVec
	AccountDecodeErrors *prometheus.CounterVec

	// RPC metrics
	RPCCallLatency  *prometheus.HistogramVec
	WSNotifications prometheus.Counter
	WSReconnects    prometheus.Counter

	// Submission metrics
	SubmissionsTotal   *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec

	// Dashboard metrics
	ActivityLogSize prometheus.Gauge

	// Health metrics
	LastSuccessfulFetch prometheus.Gauge
	UptimeSeconds       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hzk_dashboard"
	}

	return &Metrics{
		// Account fetch metrics
		AccountFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "fetches_total",
			Help:      "Total number of account fetches by kind and status",
		}, []string{"account", "status"}),
		AccountDecodeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "decode_errors_total",
			Help:      "Total number of account decode failures by kind",
		}, []string{"account", "error_type"}),

		// RPC metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSNotifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_notifications_total",
			Help:      "Total number of account notifications received over WebSocket",
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnections",
		}),

		// Submission metrics
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "transactions_total",
			Help:      "Total number of submitted transactions by action and outcome",
		}, []string{"action", "outcome"}),
		SubmissionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "duration_seconds",
			Help:      "Time from preparation to terminal state in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"action"}),

		// Dashboard metrics
		ActivityLogSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "activity_log_size",
			Help:      "Current number of entries in the activity log",
		}),

		// Health metrics
		LastSuccessfulFetch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_fetch_timestamp",
			Help:      "Unix timestamp of last successful account fetch",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAccountFetch increments the fetch counter for one account kind.
func RecordAccountFetch(account string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.AccountFetches.WithLabelValues(account, status).Inc()
}

// RecordDecodeError records a decode failure for one account kind.
func RecordDecodeError(account, errorType string) {
	DefaultMetrics.AccountDecodeErrors.WithLabelValues(account, errorType).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordWSReconnect counts one successful WebSocket reconnection.
func RecordWSReconnect() {
	DefaultMetrics.WSReconnects.Inc()
}

// RecordSubmission records a finished transaction submission.
func RecordSubmission(action, outcome string, durationSeconds float64) {
	DefaultMetrics.SubmissionsTotal.WithLabelValues(action, outcome).Inc()
	DefaultMetrics.SubmissionDuration.WithLabelValues(action).Observe(durationSeconds)
}

// UpdateActivityLogSize updates the activity log size gauge.
func UpdateActivityLogSize(n int) {
	DefaultMetrics.ActivityLogSize.Set(float64(n))
}
