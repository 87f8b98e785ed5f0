package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order transaction outcomes.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	created   prometheus.Counter
	cancelled prometheus.Counter
	failures  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_tx_duration_seconds",
		Help:    "Duration of order create/cancel transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed successfully.",
	})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled successfully.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_tx_failures_total",
		Help: "Order transactions rolled back, by failure reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, created, cancelled, failures)
	return &CheckoutMetrics{
		duration:  duration,
		created:   created,
		cancelled: cancelled,
		failures:  failures,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CheckoutMetrics) ObserveDuration(op string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncCreated increments the committed-order counter.
func (c *CheckoutMetrics) IncCreated() {
	if c == nil || c.created == nil {
		return
	}
	c.created.Inc()
}

// IncCancelled increments the cancelled-order counter.
func (c *CheckoutMetrics) IncCancelled() {
	if c == nil || c.cancelled == nil {
		return
	}
	c.cancelled.Inc()
}

// IncFailure increments the rollback counter for the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
