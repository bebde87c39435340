package stores

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/filestorages"
	"trace-analytics/internal/shared/filestorages/mocks"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		RunID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		EventCount: 6,
		Sessions: &models.SessionTable{
			GapThresholdSec: 1800,
			Sessions: []models.Session{
				{ID: 0, StartTime: 0, EndTime: 100, TurnCount: 3, DurationSec: 100},
				{ID: 1, StartTime: 5000, EndTime: 5200, TurnCount: 3, DurationSec: 200},
			},
		},
		Windows: &models.WindowTable{
			BinWidthSec: 3600,
			Windows: []models.Window{
				{BinStart: 0, BinEnd: 3600, Count: 1, Mean: 3},
				{BinStart: 3600, BinEnd: 7200, Count: 1, Mean: 3},
			},
		},
		HourOfDay: []models.HourOfDayRecord{
			{Hour: 0, Mean: 3, SampleCount: 1},
			{Hour: 1, Mean: 3, SampleCount: 1},
		},
		Concurrency: []models.ConcurrencySummary{
			{Label: "10s", MultiplierSec: 10, Peak: 1, Mean: 1, Median: 1, TimeWeighted: true},
		},
		Sensitivity: &models.SensitivityResult{
			Rows: []models.SensitivityRow{
				{
					Label:           "30m",
					GapThresholdSec: 1800,
					SessionCount:    2,
					FractionsByTurns: []models.ThresholdFraction{
						{Threshold: 2, Fraction: 1},
						{Threshold: 3, Fraction: 1},
					},
					MeanTurnCount: 3,
				},
			},
		},
	}
}

func TestResultStore_Save_WritesSummaryAndTables(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewResultStore(mockFileStorage, true)
	result := sampleResult()

	written := map[string]string{}
	mockFileStorage.EXPECT().
		Put(gomock.Any(), gomock.Any(), gomock.Any(), filestorages.PutOptions{AllowOverwrite: true}).
		DoAndReturn(func(_ context.Context, key string, r io.Reader, _ filestorages.PutOptions) (*filestorages.PutResult, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			written[key] = string(data)
			return &filestorages.PutResult{FileKey: key}, nil
		}).
		Times(6)

	require.NoError(t, store.Save(context.Background(), result))

	prefix := "runs/01ARZ3NDEKTSV4RRFFQ69G5FAV/"
	require.Contains(t, written, prefix+"result.json")
	require.Contains(t, written, prefix+"sessions.csv")
	require.Contains(t, written, prefix+"windows.csv")
	require.Contains(t, written, prefix+"hour_of_day.csv")
	require.Contains(t, written, prefix+"concurrency.csv")
	require.Contains(t, written, prefix+"sensitivity.csv")

	sessions := written[prefix+"sessions.csv"]
	lines := strings.Split(strings.TrimSpace(sessions), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,start_time,end_time,turn_count,duration_sec", lines[0])
	assert.Equal(t, "0,0,100,3,100", lines[1])

	sensitivityCSV := written[prefix+"sensitivity.csv"]
	assert.True(t, strings.HasPrefix(sensitivityCSV,
		"label,gap_threshold_sec,session_count,frac_turns_ge_2,frac_turns_ge_3,mean_turn_count,std_mean_turns_by_hour"))
}

func TestResultStore_Save_JSONOnly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewResultStore(mockFileStorage, false)

	mockFileStorage.EXPECT().
		Put(gomock.Any(), "runs/01ARZ3NDEKTSV4RRFFQ69G5FAV/result.json", gomock.Any(), gomock.Any()).
		Return(&filestorages.PutResult{}, nil)

	require.NoError(t, store.Save(context.Background(), sampleResult()))
}

func TestResultStore_Save_PutFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFileStorage := mocks.NewMockFileStorage(ctrl)
	store := NewResultStore(mockFileStorage, false)

	mockFileStorage.EXPECT().
		Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("disk full"))

	err := store.Save(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestResultStore_RoundTrip(t *testing.T) {
	t.Parallel()

	fileStorage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	store := NewResultStore(fileStorage, true)

	result := sampleResult()
	require.NoError(t, store.Save(context.Background(), result))

	loaded, err := store.Get(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, loaded.RunID)
	assert.Equal(t, result.EventCount, loaded.EventCount)
	require.NotNil(t, loaded.Sensitivity)
	assert.Equal(t, result.Sensitivity.Rows, loaded.Sensitivity.Rows)

	// Session and window tables live in the CSV artifacts, not the summary.
	assert.Nil(t, loaded.Sessions)
	assert.Nil(t, loaded.Windows)
}

func TestResultStore_Get_NotFound(t *testing.T) {
	t.Parallel()

	fileStorage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	store := NewResultStore(fileStorage, true)

	_, err = store.Get(context.Background(), "01UNKNOWNRUNIDXXXXXXXXXXXX")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
