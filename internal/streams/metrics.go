package streams

import (
	"stb-telemetry/internal/shared/metrics"
)

var (
	metricQueuePublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "queue_published_total",
		},
		[]string{"stream_id"},
	)

	// metricQueueBackpressureTotal counts publishes that found the queue full and had to wait.
	metricQueueBackpressureTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "queue_backpressure_total",
		},
		[]string{"stream_id"},
	)
)
