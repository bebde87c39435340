package sensitivity

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	metricSweepSettingsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSweep,
			Name:      "sweep_settings_total",
		},
		[]string{"outcome"},
	)
)

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
)
