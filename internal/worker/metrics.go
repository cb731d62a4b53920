package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expense_tracker",
			Name:      "sheets_syncs_total",
			Help:      "Total number of ledger mirror syncs by result",
		},
		[]string{"result"},
	)
	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "expense_tracker",
			Name:      "sheets_sync_duration_seconds",
			Help:      "Duration of ledger mirror syncs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
	lastSyncTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "expense_tracker",
			Name:      "sheets_last_sync_timestamp_seconds",
			Help:      "Unix time of the last successful ledger mirror sync",
		},
	)
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expense_tracker",
			Name:      "ledger_events_total",
			Help:      "Ledger events received by type",
		},
		[]string{"type"},
	)
	exportedExpenses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "expense_tracker",
			Name:      "sheets_exported_expenses",
			Help:      "Number of expenses written by the last successful sync",
		},
	)
)
