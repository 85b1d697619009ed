package ingestors

import (
	"stb-telemetry/internal/shared/metrics"
)

var (
	metricRequestsIngestedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngest,
			Name:      "requests_ingested_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricEventsAcceptedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngest,
			Name:      "events_accepted_total",
		},
		[]string{"event_kind"},
	)
)
