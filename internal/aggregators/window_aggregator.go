package aggregators

import (
	"context"
	"math"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
)

// Sample is one (timestamp, value) observation fed to window aggregation.
type Sample struct {
	Timestamp float64
	Value     float64
}

// SamplesFromSessions projects a session table onto (startTime, turnCount)
// samples, the series the original depth-over-time analysis bins.
func SamplesFromSessions(table *models.SessionTable) []Sample {
	samples := make([]Sample, len(table.Sessions))
	for i, s := range table.Sessions {
		samples[i] = Sample{Timestamp: s.StartTime, Value: float64(s.TurnCount)}
	}
	return samples
}

//go:generate mockgen -source=window_aggregator.go -destination=./mocks/window_aggregator_mock.go -package=mocks
type WindowAggregator interface {
	// Aggregate buckets samples into fixed-width bins keyed by
	// binStart = floor(timestamp/width)*width and emits one row per bin
	// actually observed, in ascending bin-start order. Quantiles use linear
	// interpolation between order statistics.
	Aggregate(ctx context.Context, samples []Sample) (*models.WindowTable, error)
}

type windowAggregator struct {
	binWidthSec float64
}

func NewWindowAggregator(binWidthSec float64) (WindowAggregator, error) {
	if binWidthSec <= 0 {
		return nil, errInvalidBinWidth(binWidthSec)
	}
	return &windowAggregator{binWidthSec: binWidthSec}, nil
}

func (a *windowAggregator) Aggregate(ctx context.Context, samples []Sample) (*models.WindowTable, error) {
	byBin := make(map[float64][]float64)
	for _, sample := range samples {
		binStart := math.Floor(sample.Timestamp/a.binWidthSec) * a.binWidthSec
		byBin[binStart] = append(byBin[binStart], sample.Value)
	}

	binStarts := make([]float64, 0, len(byBin))
	for binStart := range byBin {
		binStarts = append(binStarts, binStart)
	}
	sort.Float64s(binStarts)

	windows := make([]models.Window, 0, len(binStarts))
	for _, binStart := range binStarts {
		values := byBin[binStart]
		sort.Float64s(values)
		windows = append(windows, models.Window{
			BinStart: binStart,
			BinEnd:   binStart + a.binWidthSec,
			Count:    int64(len(values)),
			Mean:     stats.Mean(values),
			P90:      stats.QuantileSorted(values, 0.90),
			P95:      stats.QuantileSorted(values, 0.95),
		})
	}

	metricWindowsAggregatedTotal.WithLabelValues().Add(float64(len(windows)))
	loggers.Ctx(ctx).Debug().
		Int("samples", len(samples)).
		Int("windows", len(windows)).
		Float64("bin_width_sec", a.binWidthSec).
		Msg("aggregated samples into windows")

	return &models.WindowTable{Windows: windows, BinWidthSec: a.binWidthSec}, nil
}
