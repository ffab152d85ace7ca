// Package metrics exposes Prometheus counters for the booking flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "venue_booking"

// Metrics groups the collectors. A nil *Metrics is valid and records
// nothing, which keeps tests free of registry setup.
type Metrics struct {
	bookingCreated  prometheus.Counter
	bookingConflict prometheus.Counter
	bookingStatus   *prometheus.CounterVec
	payments        prometheus.Counter
	refunds         prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		bookingCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		}),
		bookingConflict: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflict_total",
			Help:      "Count of booking requests rejected for overlapping an existing booking.",
		}),
		bookingStatus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_change_total",
			Help:      "Count of booking status changes by target status.",
		}, []string{"status"}),
		payments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_success_total",
			Help:      "Count of successful payments.",
		}),
		refunds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_refund_total",
			Help:      "Count of refunded payments.",
		}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

func (m *Metrics) IncBookingCreated() {
	if m != nil {
		m.bookingCreated.Inc()
	}
}

func (m *Metrics) IncBookingConflict() {
	if m != nil {
		m.bookingConflict.Inc()
	}
}

func (m *Metrics) IncBookingStatus(status string) {
	if m != nil {
		m.bookingStatus.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncPayment() {
	if m != nil {
		m.payments.Inc()
	}
}

func (m *Metrics) IncRefund() {
	if m != nil {
		m.refunds.Inc()
	}
}

// ObserveHTTP records one request's latency in seconds.
func (m *Metrics) ObserveHTTP(method, route, code string, seconds float64) {
	if m != nil {
		m.httpDuration.WithLabelValues(method, route, code).Observe(seconds)
	}
}
