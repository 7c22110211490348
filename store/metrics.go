package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SeriesCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "store",
		Name:      "series",
		Help:      "Shows the number of distinct message identifiers held by the store.",
	})
	EntriesCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "store",
		Name:      "entries",
		Help:      "Shows the total number of message states held by the store.",
	})
	MaxCommittedSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "store",
		Name:      "max_committed_slot",
		Help:      "Shows the highest slot committed so far.",
	})
	UpsertedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "store",
		Name:      "upserted_records_total",
	})
	PrunedEntries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "store",
		Name:      "pruned_entries_total",
	})
)
