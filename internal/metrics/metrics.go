// Package metrics exposes Prometheus collectors for batch reduction.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "barrett"

// Metrics groups the collectors updated by the batch reducer.
type Metrics struct {
	Reductions    prometheus.Counter
	Batches       prometheus.Counter
	BatchErrors   prometheus.Counter
	BatchDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests and one-shot callers want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reductions_total",
			Help:      "Number of 128-bit dividends reduced.",
		}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Number of batch reductions started.",
		}),
		BatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_errors_total",
			Help:      "Number of batch reductions that did not complete.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of completed batch reductions.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Reductions, m.Batches, m.BatchErrors, m.BatchDuration)
	}
	return m
}
