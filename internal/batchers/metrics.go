package batchers

import (
	"stb-telemetry/internal/shared/metrics"
)

// Flush reasons used as the reason label.
const (
	reasonSize   = "size"
	reasonPeriod = "period"
	reasonForced = "forced"
	reasonStop   = "stop"
)

var (
	metricEventsReceivedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubEngine,
			Name:      "events_received_total",
		},
		[]string{"event_kind"},
	)

	// metricBatchesFlushedTotal counts flush attempts by trigger. error_code is empty for
	// written batches, ENG_1001/ENG_1002 for held ones and ENG_9xxx for fatal failures.
	metricBatchesFlushedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubEngine,
			Name:      "batches_flushed_total",
		},
		[]string{"reason", metrics.FieldErrorCode},
	)

	metricBatchSizeEvents = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubEngine,
			Name:      "batch_size_events",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
		[]string{"reason"},
	)

	metricFlushDurationSeconds = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubEngine,
			Name:      "flush_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"reason"},
	)
)
