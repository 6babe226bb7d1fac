// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of store operations by outcome",
		},
		[]string{"store", "operation", "outcome"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "store_operation_duration_seconds",
			Help: "Duration of store operations in seconds, simulated latency included",
		},
		[]string{"store", "operation"},
	)

	SnapshotWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_write_failures_total",
			Help: "Persist failures swallowed by the job store (operation still reported success)",
		},
	)

	ExtractionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_requests_total",
			Help: "Total number of fill-form extraction requests by outcome",
		},
		[]string{"outcome"},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events dropped because a subscriber channel was full",
		},
		[]string{"topic"},
	)
)
