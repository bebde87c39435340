package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-analytics/internal/aggregators"
	"trace-analytics/internal/decomposers"
	"trace-analytics/internal/estimators"
	"trace-analytics/internal/ingestors"
	"trace-analytics/internal/models"
	"trace-analytics/internal/segmenters"
	"trace-analytics/internal/sensitivity"
	"trace-analytics/internal/shared/svcerrors"
)

func newTestService(t *testing.T) AnalysisService {
	t.Helper()

	segmenter, err := segmenters.NewSessionSegmenter(1800)
	require.NoError(t, err)
	windowAgg, err := aggregators.NewWindowAggregator(3600)
	require.NoError(t, err)
	estimator, err := estimators.NewConcurrencyEstimator([]float64{10, 30})
	require.NoError(t, err)
	runner, err := sensitivity.NewSensitivityRunner([]float64{900, 1800, 3600}, []int64{2, 3}, zerolog.Nop())
	require.NoError(t, err)

	return NewAnalysisService(
		ingestors.NewTraceLoader(),
		ingestors.NewTimestampNormalizer(),
		segmenter,
		windowAgg,
		aggregators.NewHourOfDayAggregator(),
		decomposers.NewVarianceDecomposer(),
		estimator,
		runner,
		0,
	)
}

// writeTrace lays a synthetic two-day trace on disk: one burst of
// conversational events every other hour, burst size cycling with the hour so
// the daily shape is identical across the two days but not flat.
func writeTrace(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trace.csv")
	content := "timestamp,log type\n"
	events := 0
	for day := 0; day < 2; day++ {
		for hour := 0; hour < 24; hour += 2 {
			base := float64(day)*models.SecondsPerDay + float64(hour)*models.SecondsPerHour
			turns := 2 + (hour/2)%4
			for turn := 0; turn < turns; turn++ {
				content += fmt.Sprintf("%.1f,conversation log\n", base+float64(turn)*60)
				events++
			}
		}
	}
	require.Equal(t, 84, events)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalysisService_Run(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	result, err := service.Run(context.Background(), writeTrace(t))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 84, result.EventCount)
	assert.Equal(t, 0, result.DroppedRecords)
	assert.Equal(t, 0.0, result.TraceStartSec)

	// Each two-hourly burst is one session.
	require.NotNil(t, result.Sessions)
	assert.Equal(t, 24, result.Sessions.Len())
	for _, s := range result.Sessions.Sessions {
		assert.GreaterOrEqual(t, s.TurnCount, int64(2))
		assert.LessOrEqual(t, s.TurnCount, int64(5))
	}

	require.NotNil(t, result.Windows)
	assert.Equal(t, 24, result.Windows.Len())

	// Bursts sit on even hours only.
	require.Len(t, result.HourOfDay, 12)
	for _, record := range result.HourOfDay {
		assert.Zero(t, record.Hour%2)
		assert.Equal(t, int64(2), record.SampleCount)
	}

	require.NotNil(t, result.Variance)
	require.NotNil(t, result.Variance.GlobalCV)
	assert.Greater(t, *result.Variance.GlobalCV, 0.0)
	require.NotNil(t, result.Variance.IntraDay)
	assert.Equal(t, 2, result.Variance.IntraDay.DayCount)
	require.NotNil(t, result.Variance.InterDay)
	// Both days repeat the same hourly values, so across-day variation is 0.
	assert.Equal(t, 0.0, result.Variance.InterDay.Mean)

	// Both days carry the identical curve, so the single pair correlates at 1.
	require.NotNil(t, result.DailyCurves)
	assert.Equal(t, 1, result.DailyCurves.PairCount)
	assert.InDelta(t, 1.0, result.DailyCurves.Mean, 1e-9)

	require.NotNil(t, result.InterArrival)
	assert.InDelta(t, 2*models.SecondsPerHour, result.InterArrival.Median, 1e-9)

	require.Len(t, result.Concurrency, 2)
	assert.Equal(t, "10s", result.Concurrency[0].Label)
	assert.Equal(t, int64(1), result.Concurrency[0].Peak)

	require.NotNil(t, result.Sensitivity)
	require.Len(t, result.Sensitivity.Rows, 3)
	assert.Empty(t, result.Sensitivity.Failures)
	// Coarser gaps can only merge sessions.
	rows := result.Sensitivity.Rows
	assert.GreaterOrEqual(t, rows[0].SessionCount, rows[1].SessionCount)
	assert.GreaterOrEqual(t, rows[1].SessionCount, rows[2].SessionCount)
}

func TestAnalysisService_EmptyTrace(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,log type\n"), 0o644))

	service := newTestService(t)
	_, err := service.Run(context.Background(), path)
	require.Error(t, err)
	assert.True(t, svcerrors.IsEmptyInput(err))
}

func TestAnalysisService_MissingFile(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	_, err := service.Run(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, svcerrors.IsInternalError(err))
}
