package segmenters

import (
	"trace-analytics/internal/shared/metrics"
)

var (
	metricSessionsSegmentedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSegment,
			Name:      "sessions_segmented_total",
		},
		[]string{"mode"},
	)
)

const (
	modeInferred = "inferred"
	modeExplicit = "explicit"
)
