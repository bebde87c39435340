package aggregators

import (
	"context"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
)

// HourOfDayAggregator folds a windowed or per-session series into 24
// hour-of-day buckets. Only observed hours are emitted, sorted ascending.
type HourOfDayAggregator interface {
	AggregateWindows(ctx context.Context, table *models.WindowTable) []models.HourOfDayRecord
	AggregateSessions(ctx context.Context, table *models.SessionTable) []models.HourOfDayRecord
}

type hourOfDayAggregator struct{}

func NewHourOfDayAggregator() HourOfDayAggregator {
	return &hourOfDayAggregator{}
}

func (a *hourOfDayAggregator) AggregateWindows(ctx context.Context, table *models.WindowTable) []models.HourOfDayRecord {
	byHour := make(map[int][]float64)
	for _, w := range table.Windows {
		byHour[w.HourOfDay()] = append(byHour[w.HourOfDay()], w.Mean)
	}
	records := foldHours(byHour)
	loggers.Ctx(ctx).Debug().
		Int("windows", table.Len()).
		Int("hours", len(records)).
		Msg("re-aggregated windows by hour of day")
	return records
}

func (a *hourOfDayAggregator) AggregateSessions(ctx context.Context, table *models.SessionTable) []models.HourOfDayRecord {
	byHour := make(map[int][]float64)
	for _, s := range table.Sessions {
		byHour[s.HourOfDay()] = append(byHour[s.HourOfDay()], float64(s.TurnCount))
	}
	records := foldHours(byHour)
	loggers.Ctx(ctx).Debug().
		Int("sessions", table.Len()).
		Int("hours", len(records)).
		Msg("re-aggregated sessions by hour of day")
	return records
}

func foldHours(byHour map[int][]float64) []models.HourOfDayRecord {
	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	records := make([]models.HourOfDayRecord, 0, len(hours))
	for _, hour := range hours {
		values := byHour[hour]
		sort.Float64s(values)
		records = append(records, models.HourOfDayRecord{
			Hour:        hour,
			Mean:        stats.Mean(values),
			Std:         stats.SampleStd(values),
			P10:         stats.QuantileSorted(values, 0.10),
			P90:         stats.QuantileSorted(values, 0.90),
			SampleCount: int64(len(values)),
		})
	}
	return records
}
