package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks badge composition and batch runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FacesComposed    *prometheus.CounterVec
	BarcodeFailures  prometheus.Counter
	BatchesStarted   prometheus.Counter
	BatchesCompleted prometheus.Counter
	BatchDuration    prometheus.Histogram
}

// New registers the badge metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FacesComposed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_faces_composed_total",
			Help: "Total number of badge faces composed",
		}, []string{"face"}),
		BarcodeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "badge_barcode_failures_total",
			Help: "Total number of barcode layers skipped after an encoding failure",
		}),
		BatchesStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "badge_batches_started_total",
			Help: "Total number of batch runs started",
		}),
		BatchesCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "badge_batches_completed_total",
			Help: "Total number of batch runs that composed every record",
		}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "badge_batch_duration_seconds",
			Help:    "Duration of complete batch runs",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

func (m *Metrics) IncFaceComposed(face string) {
	if m == nil {
		return
	}
	m.FacesComposed.WithLabelValues(face).Inc()
}

func (m *Metrics) IncBarcodeFailure() {
	if m == nil {
		return
	}
	m.BarcodeFailures.Inc()
}

func (m *Metrics) IncBatchStarted() {
	if m == nil {
		return
	}
	m.BatchesStarted.Inc()
}

// ObserveBatch records a completed batch. Call with time.Now() at the start of the run.
func (m *Metrics) ObserveBatch(start time.Time) {
	if m == nil {
		return
	}
	m.BatchesCompleted.Inc()
	m.BatchDuration.Observe(time.Since(start).Seconds())
}
