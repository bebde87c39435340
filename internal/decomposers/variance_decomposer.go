package decomposers

import (
	"context"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
)

const (
	// minWindowsPerDay is the fewest windows a day must contribute before its
	// within-day variability is trusted.
	minWindowsPerDay = 6
)

// VarianceDecomposer splits the variability of a windowed series into a
// global, a within-day and a between-day component, each expressed as a
// coefficient of variation. Levels whose guard is never met come back nil.
type VarianceDecomposer interface {
	Decompose(ctx context.Context, table *models.WindowTable) (*models.VarianceDecomposition, error)
}

type varianceDecomposer struct{}

func NewVarianceDecomposer() VarianceDecomposer {
	return &varianceDecomposer{}
}

func (d *varianceDecomposer) Decompose(ctx context.Context, table *models.WindowTable) (*models.VarianceDecomposition, error) {
	if table.Len() == 0 {
		return nil, errEmptyWindowTable
	}

	result := &models.VarianceDecomposition{}

	means := table.Means()
	if cv, ok := stats.CV(means); ok {
		result.GlobalCV = &cv
	}
	result.IntraDay = intraDayCV(table)
	result.InterDay = interDayCV(table)

	loggers.Ctx(ctx).Debug().
		Int("windows", table.Len()).
		Bool("global", result.GlobalCV != nil).
		Bool("intra_day", result.IntraDay != nil).
		Bool("inter_day", result.InterDay != nil).
		Msg("decomposed window variance")

	return result, nil
}

// intraDayCV computes the CV of window means within each qualifying day and
// summarizes those per-day CVs. A day qualifies when it contributes at least
// minWindowsPerDay windows and its mean is positive.
func intraDayCV(table *models.WindowTable) *models.IntraDayCV {
	byDay := make(map[int64][]float64)
	for _, w := range table.Windows {
		byDay[w.DayIndex()] = append(byDay[w.DayIndex()], w.Mean)
	}

	dayCVs := make([]float64, 0, len(byDay))
	for _, values := range byDay {
		if len(values) < minWindowsPerDay {
			continue
		}
		if cv, ok := stats.CV(values); ok {
			dayCVs = append(dayCVs, cv)
		}
	}
	if len(dayCVs) == 0 {
		return nil
	}
	return &models.IntraDayCV{
		Mean:     stats.Mean(dayCVs),
		Std:      stats.SampleStd(dayCVs),
		DayCount: len(dayCVs),
	}
}

// interDayCV measures how much the same hour of day varies across days: for
// each hour observed on at least two days with a positive mean, the CV of its
// per-day means is taken, and those per-hour CVs are averaged.
func interDayCV(table *models.WindowTable) *models.InterDayCV {
	type dayHour struct {
		day  int64
		hour int
	}
	byDayHour := make(map[dayHour][]float64)
	for _, w := range table.Windows {
		key := dayHour{day: w.DayIndex(), hour: w.HourOfDay()}
		byDayHour[key] = append(byDayHour[key], w.Mean)
	}

	byHour := make(map[int][]float64)
	for key, values := range byDayHour {
		byHour[key.hour] = append(byHour[key.hour], stats.Mean(values))
	}

	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	hourCVs := make([]float64, 0, len(hours))
	for _, hour := range hours {
		values := byHour[hour]
		if len(values) < 2 {
			continue
		}
		if cv, ok := stats.CV(values); ok {
			hourCVs = append(hourCVs, cv)
		}
	}
	if len(hourCVs) == 0 {
		return nil
	}
	return &models.InterDayCV{
		Mean:      stats.Mean(hourCVs),
		HourCount: len(hourCVs),
	}
}
