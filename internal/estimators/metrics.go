package estimators

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	metricSweepEventsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubConcurrency,
			Name:      "sweep_events_total",
		},
		[]string{"multiplier"},
	)
)
