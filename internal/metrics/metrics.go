package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels passes that produced at least one record.
	OutcomeSuccess = "success"
	// OutcomeEmpty labels passes whose filter matched nothing.
	OutcomeEmpty = "empty"
	// OutcomeError labels passes that failed (load or validation).
	OutcomeError = "error"
)

var (
	passesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrpulse",
			Name:      "passes_total",
			Help:      "Total number of dashboard recomputation passes, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	passDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hrpulse",
			Name:      "pass_seconds",
			Help:      "Dashboard pass latency in seconds.",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	filteredRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hrpulse",
			Name:      "filtered_rows",
			Help:      "Records retained by the most recent pass.",
		},
	)

	datasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hrpulse",
			Name:      "dataset_rows",
			Help:      "Records in the loaded employee table.",
		},
	)

	emptyResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hrpulse",
			Name:      "empty_results_total",
			Help:      "Passes whose filter criteria matched no records.",
		},
	)
)

// Register attaches hrpulse collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		passesTotal,
		passDurationSeconds,
		filteredRows,
		datasetRows,
		emptyResultsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObservePass records a pass duration, its outcome and the retained row count.
func ObservePass(duration time.Duration, outcome string, rows int) {
	switch outcome {
	case OutcomeEmpty:
		emptyResultsTotal.Inc()
	case OutcomeError:
	default:
		outcome = OutcomeSuccess
	}
	passesTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	passDurationSeconds.Observe(duration.Seconds())
	if outcome != OutcomeError {
		filteredRows.Set(float64(rows))
	}
}

// SetDatasetRows records the size of the loaded table.
func SetDatasetRows(n int) {
	datasetRows.Set(float64(n))
}
