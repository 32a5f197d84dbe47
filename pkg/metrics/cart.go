package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart operation outcomes and recompute latency.
type CartMetrics struct {
	operations *prometheus.CounterVec
	recompute  prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by name and outcome.",
	}, []string{"operation", "outcome"})
	recompute := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_recompute_duration_seconds",
		Help:    "Duration of full cart recomputation in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(operations, recompute)
	return &CartMetrics{
		operations: operations,
		recompute:  recompute,
	}
}

// IncOperation increments the counter for the named operation.
func (c *CartMetrics) IncOperation(operation string, err error) {
	if c == nil || c.operations == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

// ObserveRecompute records the duration of one recomputation pass.
func (c *CartMetrics) ObserveRecompute(duration time.Duration) {
	if c == nil || c.recompute == nil {
		return
	}
	c.recompute.Observe(duration.Seconds())
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
