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
	// Reconciliation metrics
	RefreshCycles        *prometheus.CounterVec
	RefreshDuration      prometheus.Histogram
	SnapshotsPublished   prometheus.Counter
	StaleCyclesDiscarded prometheus.Counter

	// Daemon gateway metrics
	DaemonRequestLatency *prometheus.HistogramVec
	DaemonRequestErrors  *prometheus.CounterVec

	// Invoice metrics
	PendingInvoices prometheus.Gauge
	InvoicesSettled prometheus.Counter

	// Subscriber metrics
	Subscribers          prometheus.Gauge
	DroppedNotifications prometheus.Counter

	// Feed metrics
	FeedReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "lnwallet"
	}

	return &Metrics{
		RefreshCycles: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "refresh_cycles_total",
			Help:      "Total number of reconciliation cycles by outcome",
		}, []string{"outcome"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "refresh_duration_seconds",
			Help:      "Reconciliation cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "snapshots_published_total",
			Help:      "Total number of snapshots published to subscribers",
		}),
		StaleCyclesDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "stale_cycles_discarded_total",
			Help:      "Total number of cycle completions discarded by the sequence guard",
		}),
		DaemonRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "daemon",
			Name:      "request_latency_seconds",
			Help:      "Daemon request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DaemonRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "daemon",
			Name:      "request_errors_total",
			Help:      "Total number of daemon request failures by kind",
		}, []string{"operation", "kind"}),
		PendingInvoices: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "invoices",
			Name:      "pending",
			Help:      "Current number of invoices awaiting settlement",
		}),
		InvoicesSettled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invoices",
			Name:      "settled_total",
			Help:      "Total number of invoices matched to a confirmed receive",
		}),
		Subscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "subscribers",
			Help:      "Current number of snapshot subscribers",
		}),
		DroppedNotifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "dropped_notifications_total",
			Help:      "Total number of snapshot notifications dropped on slow subscribers",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of wallet feed websocket reconnects",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCycle records the outcome and duration of one reconciliation cycle.
func RecordCycle(outcome string, seconds float64) {
	DefaultMetrics.RefreshCycles.WithLabelValues(outcome).Inc()
	DefaultMetrics.RefreshDuration.Observe(seconds)
}

// RecordStaleCycle counts a completion discarded by the sequence guard.
func RecordStaleCycle() {
	DefaultMetrics.StaleCyclesDiscarded.Inc()
}

// RecordSnapshotPublished counts one snapshot publication.
func RecordSnapshotPublished() {
	DefaultMetrics.SnapshotsPublished.Inc()
}

// RecordDaemonRequest records latency for one daemon operation and, when
// errKind is non-empty, a failure of that kind.
func RecordDaemonRequest(operation string, seconds float64, errKind string) {
	DefaultMetrics.DaemonRequestLatency.WithLabelValues(operation).Observe(seconds)
	if errKind != "" {
		DefaultMetrics.DaemonRequestErrors.WithLabelValues(operation, errKind).Inc()
	}
}

// UpdatePendingInvoices updates the pending invoice gauge.
func UpdatePendingInvoices(n int) {
	DefaultMetrics.PendingInvoices.Set(float64(n))
}

// RecordInvoiceSettled counts one invoice settlement.
func RecordInvoiceSettled() {
	DefaultMetrics.InvoicesSettled.Inc()
}

// UpdateSubscribers updates the subscriber gauge.
func UpdateSubscribers(n int) {
	DefaultMetrics.Subscribers.Set(float64(n))
}

// RecordDroppedNotification counts a notification dropped on a slow subscriber.
func RecordDroppedNotification() {
	DefaultMetrics.DroppedNotifications.Inc()
}

// RecordFeedReconnect counts one wallet feed reconnect.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}
