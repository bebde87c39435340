package streams

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	streamSweepJob              = "sweep_job"
	metricSweepJobProducedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSweep,
			Name:      "sweep_job_published_total",
		},
		[]string{"stream_id"},
	)

	metricSweepJobConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSweep,
			Name:      "sweep_job_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
