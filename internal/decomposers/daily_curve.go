package decomposers

import (
	"context"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
)

// minCommonHours is the fewest overlapping hours two day curves must share
// before their correlation is counted.
const minCommonHours = 6

// BuildDailyCurves projects a window table onto one 24-hour curve per day.
// Each curve cell holds the mean of the window means landing in that
// (day, hour) slot; hours with no windows stay absent. Curves are returned in
// ascending day order.
func BuildDailyCurves(ctx context.Context, table *models.WindowTable) []models.DailyCurve {
	type slot struct {
		sum   float64
		count int64
	}
	byDay := make(map[int64]*[models.HoursPerDay]slot)
	for _, w := range table.Windows {
		day, hour := w.DayIndex(), w.HourOfDay()
		if byDay[day] == nil {
			byDay[day] = &[models.HoursPerDay]slot{}
		}
		byDay[day][hour].sum += w.Mean
		byDay[day][hour].count++
	}

	days := make([]int64, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	curves := make([]models.DailyCurve, 0, len(days))
	for _, day := range days {
		curve := models.DailyCurve{DayIndex: day}
		for hour, s := range byDay[day] {
			if s.count == 0 {
				continue
			}
			curve.Values[hour] = s.sum / float64(s.count)
			curve.Present[hour] = true
		}
		curves = append(curves, curve)
	}

	loggers.Ctx(ctx).Debug().
		Int("windows", table.Len()).
		Int("days", len(curves)).
		Msg("built daily curves")
	return curves
}

// CorrelateDailyCurves computes the Pearson correlation of every pair of day
// curves over their common hours and summarizes the coefficients. Pairs with
// fewer than minCommonHours overlapping hours, or with a degenerate
// correlation, are skipped. Returns nil when no pair qualifies.
func CorrelateDailyCurves(ctx context.Context, curves []models.DailyCurve) *models.CurveCorrelation {
	coefficients := make([]float64, 0)
	for i := 0; i < len(curves); i++ {
		for j := i + 1; j < len(curves); j++ {
			hours := curves[i].CommonHours(curves[j])
			if len(hours) < minCommonHours {
				continue
			}
			x := make([]float64, len(hours))
			y := make([]float64, len(hours))
			for k, hour := range hours {
				x[k] = curves[i].Values[hour]
				y[k] = curves[j].Values[hour]
			}
			if r, ok := stats.Pearson(x, y); ok {
				coefficients = append(coefficients, r)
			}
		}
	}
	if len(coefficients) == 0 {
		return nil
	}

	result := &models.CurveCorrelation{
		Mean:      stats.Mean(coefficients),
		Std:       stats.SampleStd(coefficients),
		PairCount: len(coefficients),
	}
	loggers.Ctx(ctx).Debug().
		Int("pairs", result.PairCount).
		Float64("mean_r", result.Mean).
		Msg("correlated daily curves")
	return result
}
