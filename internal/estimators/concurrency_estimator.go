package estimators

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
)

// endEpsilon orders an interval's -1 event strictly after every +1 event at
// the same instant, so an interval that starts exactly where another ends
// still counts both as active at that instant.
const endEpsilon = 1e-6

// ConcurrencyEstimator models each session as an active interval ending at
// the session's last observed event, with duration turnCount * multiplier
// seconds, and sweeps the intervals to report peak, mean and median
// concurrent load per multiplier.
type ConcurrencyEstimator interface {
	Estimate(ctx context.Context, table *models.SessionTable) ([]models.ConcurrencySummary, error)
}

// Option adjusts estimator construction.
type Option func(*concurrencyEstimator)

// WithEventIndexedStatistics switches mean and median to the event-indexed
// approximation, which weights each sweep event equally instead of weighting
// each concurrency plateau by its duration. Long stable plateaus are
// under-represented in this mode; it exists for parity with outputs produced
// that way.
func WithEventIndexedStatistics() Option {
	return func(e *concurrencyEstimator) {
		e.timeWeighted = false
	}
}

type concurrencyEstimator struct {
	multipliersSec []float64
	timeWeighted   bool
}

func NewConcurrencyEstimator(multipliersSec []float64, opts ...Option) (ConcurrencyEstimator, error) {
	if len(multipliersSec) == 0 {
		return nil, errInvalidMultipliers("list is empty")
	}
	for _, m := range multipliersSec {
		if m <= 0 {
			return nil, errInvalidMultipliers(fmt.Sprintf("multiplier must be positive, got %g", m))
		}
	}
	estimator := &concurrencyEstimator{
		multipliersSec: multipliersSec,
		timeWeighted:   true,
	}
	for _, opt := range opts {
		opt(estimator)
	}
	return estimator, nil
}

func (e *concurrencyEstimator) Estimate(ctx context.Context, table *models.SessionTable) ([]models.ConcurrencySummary, error) {
	if table.Len() == 0 {
		return nil, errEmptySessionTable
	}

	// Multipliers are independent of each other, so each one sweeps its own
	// copy of the event list concurrently.
	summaries := make([]models.ConcurrencySummary, len(e.multipliersSec))
	var wg sync.WaitGroup
	for i, multiplier := range e.multipliersSec {
		wg.Add(1)
		go func(i int, multiplier float64) {
			defer wg.Done()
			summaries[i] = e.sweep(table, multiplier)
		}(i, multiplier)
	}
	wg.Wait()

	loggers.Ctx(ctx).Debug().
		Int("sessions", table.Len()).
		Int("multipliers", len(e.multipliersSec)).
		Bool("time_weighted", e.timeWeighted).
		Msg("estimated concurrent load")
	return summaries, nil
}

func (e *concurrencyEstimator) sweep(table *models.SessionTable, multiplier float64) models.ConcurrencySummary {
	events := make([]models.ConcurrencyEvent, 0, 2*table.Len())
	for _, s := range table.Sessions {
		duration := float64(s.TurnCount) * multiplier
		events = append(events,
			models.ConcurrencyEvent{Time: s.EndTime - duration, Delta: +1},
			models.ConcurrencyEvent{Time: s.EndTime + endEpsilon, Delta: -1},
		)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Time < events[j].Time })

	label := multiplierLabel(multiplier)
	metricSweepEventsTotal.WithLabelValues(label).Add(float64(len(events)))

	summary := models.ConcurrencySummary{
		Label:         label,
		MultiplierSec: multiplier,
		TimeWeighted:  e.timeWeighted,
	}

	level := int64(0)
	levels := make([]int64, len(events))
	for i, ev := range events {
		level += int64(ev.Delta)
		levels[i] = level
		if level > summary.Peak {
			summary.Peak = level
		}
	}

	if e.timeWeighted {
		summary.Mean, summary.Median = timeWeightedStats(events, levels)
	} else {
		summary.Mean, summary.Median = eventIndexedStats(levels)
	}
	return summary
}

// timeWeightedStats treats the prefix sums as a step function over time and
// weights each plateau by its duration.
func timeWeightedStats(events []models.ConcurrencyEvent, levels []int64) (mean, median float64) {
	type plateau struct {
		level    int64
		duration float64
	}
	plateaus := make([]plateau, 0, len(events))
	var total float64
	for i := 0; i < len(events)-1; i++ {
		duration := events[i+1].Time - events[i].Time
		if duration <= 0 {
			continue
		}
		plateaus = append(plateaus, plateau{level: levels[i], duration: duration})
		total += duration
	}
	if total == 0 {
		// All events coincide: the only level ever held is the peak.
		if len(levels) > 0 {
			peak := levels[0]
			for _, l := range levels {
				if l > peak {
					peak = l
				}
			}
			return float64(peak), float64(peak)
		}
		return 0, 0
	}

	var weightedSum float64
	for _, p := range plateaus {
		weightedSum += float64(p.level) * p.duration
	}
	mean = weightedSum / total

	sort.Slice(plateaus, func(i, j int) bool { return plateaus[i].level < plateaus[j].level })
	half := total / 2
	var cumulative float64
	for _, p := range plateaus {
		cumulative += p.duration
		if cumulative >= half {
			median = float64(p.level)
			break
		}
	}
	return mean, median
}

// eventIndexedStats weights the level after each sweep event equally.
func eventIndexedStats(levels []int64) (mean, median float64) {
	if len(levels) == 0 {
		return 0, 0
	}
	var sum int64
	for _, l := range levels {
		sum += l
	}
	mean = float64(sum) / float64(len(levels))

	sorted := make([]int64, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = float64(sorted[mid])
	} else {
		median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}
	return mean, median
}

// multiplierLabel renders a multiplier as a short label, e.g. 10 -> "10s".
func multiplierLabel(multiplier float64) string {
	return strconv.FormatFloat(multiplier, 'g', -1, 64) + "s"
}
