package aggregators

import (
	"context"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
)

// ComputeInterArrivalStats summarizes the positive gaps between consecutive
// session start times. Zero gaps (simultaneous starts) are skipped; fewer
// than two sessions yields no stats.
func ComputeInterArrivalStats(ctx context.Context, table *models.SessionTable) *models.InterArrivalStats {
	starts := make([]float64, 0, table.Len())
	for _, s := range table.Sessions {
		starts = append(starts, s.StartTime)
	}
	sort.Float64s(starts)

	gaps := make([]float64, 0, len(starts))
	for i := 1; i < len(starts); i++ {
		if gap := starts[i] - starts[i-1]; gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return nil
	}
	sort.Float64s(gaps)

	result := &models.InterArrivalStats{
		Mean:   stats.Mean(gaps),
		Median: stats.QuantileSorted(gaps, 0.50),
		P95:    stats.QuantileSorted(gaps, 0.95),
		Min:    gaps[0],
		Max:    gaps[len(gaps)-1],
		Count:  int64(len(gaps)),
	}
	loggers.Ctx(ctx).Debug().
		Int64("gaps", result.Count).
		Float64("median_sec", result.Median).
		Msg("computed inter-arrival stats")
	return result
}
