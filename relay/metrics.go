package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdateResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "ingest",
		Name:      "update_results_total",
		Help:      "Counts ingested updates by kind and result.",
	}, []string{"kind", "status"})
	UpdateDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "relay",
		Subsystem: "ingest",
		Name:      "update_duration_seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"kind"})
	CommittedBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "ingest",
		Name:      "committed_batches_total",
		Help:      "Counts batches that were fully proof-bound and committed to the store.",
	})
	PendingSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "ingest",
		Name:      "pending_slots",
		Help:      "Shows the number of slots waiting for their second half.",
	})
)

func ObserveResult(kind string, err error) {
	if err != nil {
		UpdateResults.WithLabelValues(kind, "error").Inc()
	} else {
		UpdateResults.WithLabelValues(kind, "ok").Inc()
	}
}

func ObserveDuration(kind string) func() time.Duration {
	return prometheus.NewTimer(UpdateDurations.WithLabelValues(kind)).ObserveDuration
}
