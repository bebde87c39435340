package ingestors

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	metricRecordsNormalizedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "records_normalized_total",
		},
		[]string{},
	)

	metricRecordsDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "records_dropped_total",
		},
		[]string{},
	)
)
