package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	SessionsTotal      *prometheus.CounterVec
	AppointmentsTotal  *prometheus.CounterVec
	PaymentsTotal      *prometheus.CounterVec
	FeedbackTotal      prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
	MilestonesAchieved prometheus.Counter

	OutboxPublishedTotal *prometheus.CounterVec
	EventHandlerErrors   *prometheus.CounterVec

	KVOpDuration *prometheus.HistogramVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

// NewCollector registers every metric against reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		SessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "sessions_total",
			Help:      "Therapy session writes by resulting status.",
		}, []string{"status"}),

		AppointmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Booking attempts by outcome.",
		}, []string{"outcome"}),

		PaymentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "payments_total",
			Help:      "Simulated payments by outcome.",
		}, []string{"outcome"}),

		FeedbackTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "feedback_total",
			Help:      "Total feedback submissions.",
		}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "notifications_total",
			Help:      "Notifications created by type.",
		}, []string{"type"}),

		MilestonesAchieved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "milestones_achieved_total",
			Help:      "Progress milestones that reached every metric target.",
		}),

		OutboxPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbound channel messages by driver and result.",
		}, []string{"driver", "result"}),

		EventHandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "handler_errors_total",
			Help:      "Domain event handler failures by event name.",
		}, []string{"event"}),

		KVOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kv",
			Name:      "op_duration_seconds",
			Help:      "Key-value store latency distribution.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"driver", "op"}),

		AuditEntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
