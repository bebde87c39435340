package aggregators

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	metricWindowsAggregatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "windows_aggregated_total",
		},
		[]string{},
	)
)
