// Package metrics provides observability for the screening pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the screening pipeline instruments. All methods are nil-safe
// so services can run without metrics wired.
type Metrics struct {
	// Stage outcomes by stage and outcome
	StageOutcome *prometheus.CounterVec

	// Vendor call latencies by vendor
	VendorLatency *prometheus.HistogramVec

	// Overall pipeline latency including all vendor calls
	PipelineLatency prometheus.Histogram
}

// New creates a Metrics instance with all screening metrics registered.
func New() *Metrics {
	return &Metrics{
		StageOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vetgate_screening_stage_outcomes_total",
			Help: "Total stage evaluation outcomes by stage and outcome",
		}, []string{"stage", "outcome"}),

		VendorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vetgate_screening_vendor_duration_seconds",
			Help:    "Duration of vendor calls by vendor",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"vendor"}), // vendor: "aml", "fraud", "credit", "income"

		PipelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vetgate_screening_pipeline_duration_seconds",
			Help:    "Duration of a full pipeline run including vendor calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementStageOutcome records one stage evaluation outcome.
func (m *Metrics) IncrementStageOutcome(stage, outcome string) {
	if m != nil {
		m.StageOutcome.WithLabelValues(stage, outcome).Inc()
	}
}

// ObserveVendorLatency records the duration of one vendor call.
func (m *Metrics) ObserveVendorLatency(vendor string, d time.Duration) {
	if m != nil {
		m.VendorLatency.WithLabelValues(vendor).Observe(d.Seconds())
	}
}

// ObservePipelineLatency records the total pipeline run duration.
func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	if m != nil {
		m.PipelineLatency.Observe(d.Seconds())
	}
}
