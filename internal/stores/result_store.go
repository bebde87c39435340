package stores

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/filestorages"
)

// ErrRunNotFound is returned when no persisted result exists for a run id.
var ErrRunNotFound = errors.New("run not found")

// ResultStore persists one analysis run as a JSON summary plus one CSV per
// result table, all under runs/<runID>/. Column order in each CSV is fixed.
//
//go:generate mockgen -source=result_store.go -destination=./mocks/result_store_mock.go -package=mocks
type ResultStore interface {
	Save(ctx context.Context, result *models.AnalysisResult) error
	// Get returns the persisted JSON summary of a run. The per-table CSVs
	// are artifacts for external consumers and are not read back.
	Get(ctx context.Context, runID string) (*models.AnalysisResult, error)
}

type resultStore struct {
	fileStorage filestorages.FileStorage
	dir         string
	writeCSV    bool
}

func NewResultStore(fileStorage filestorages.FileStorage, writeCSV bool) ResultStore {
	return &resultStore{fileStorage: fileStorage, dir: "runs", writeCSV: writeCSV}
}

func (s *resultStore) Save(ctx context.Context, result *models.AnalysisResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	if err := s.put(ctx, result.RunID, "result.json", jsonData); err != nil {
		return err
	}
	if !s.writeCSV {
		return nil
	}

	tables := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{name: "sessions.csv", render: func() ([]byte, error) { return renderSessionsCSV(result.Sessions) }},
		{name: "windows.csv", render: func() ([]byte, error) { return renderWindowsCSV(result.Windows) }},
		{name: "hour_of_day.csv", render: func() ([]byte, error) { return renderHourOfDayCSV(result.HourOfDay) }},
		{name: "concurrency.csv", render: func() ([]byte, error) { return renderConcurrencyCSV(result.Concurrency) }},
		{name: "sensitivity.csv", render: func() ([]byte, error) { return renderSensitivityCSV(result.Sensitivity) }},
	}
	for _, table := range tables {
		data, err := table.render()
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", table.name, err)
		}
		if data == nil {
			continue
		}
		if err := s.put(ctx, result.RunID, table.name, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *resultStore) Get(ctx context.Context, runID string) (*models.AnalysisResult, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.key(runID, "result.json"))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis result: %w", err)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	return &result, nil
}

func (s *resultStore) put(ctx context.Context, runID, name string, data []byte) error {
	_, err := s.fileStorage.Put(ctx, s.key(runID, name), bytes.NewReader(data), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", name, err)
	}
	return nil
}

func (s *resultStore) key(runID, name string) string {
	return fmt.Sprintf("%s/%s/%s", s.dir, runID, name)
}

func renderSessionsCSV(table *models.SessionTable) ([]byte, error) {
	if table == nil {
		return nil, nil
	}
	rows := [][]string{{"id", "start_time", "end_time", "turn_count", "duration_sec"}}
	for _, s := range table.Sessions {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			formatFloat(s.StartTime),
			formatFloat(s.EndTime),
			strconv.FormatInt(s.TurnCount, 10),
			formatFloat(s.DurationSec),
		})
	}
	return renderCSV(rows)
}

func renderWindowsCSV(table *models.WindowTable) ([]byte, error) {
	if table == nil {
		return nil, nil
	}
	rows := [][]string{{"bin_start", "bin_end", "count", "mean", "p90", "p95"}}
	for _, w := range table.Windows {
		rows = append(rows, []string{
			formatFloat(w.BinStart),
			formatFloat(w.BinEnd),
			strconv.FormatInt(w.Count, 10),
			formatFloat(w.Mean),
			formatFloat(w.P90),
			formatFloat(w.P95),
		})
	}
	return renderCSV(rows)
}

func renderHourOfDayCSV(records []models.HourOfDayRecord) ([]byte, error) {
	rows := [][]string{{"hour", "mean", "std", "p10", "p90", "sample_count"}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Hour),
			formatFloat(r.Mean),
			formatFloat(r.Std),
			formatFloat(r.P10),
			formatFloat(r.P90),
			strconv.FormatInt(r.SampleCount, 10),
		})
	}
	return renderCSV(rows)
}

func renderConcurrencyCSV(summaries []models.ConcurrencySummary) ([]byte, error) {
	rows := [][]string{{"label", "multiplier_sec", "peak", "mean", "median", "time_weighted"}}
	for _, c := range summaries {
		rows = append(rows, []string{
			c.Label,
			formatFloat(c.MultiplierSec),
			strconv.FormatInt(c.Peak, 10),
			formatFloat(c.Mean),
			formatFloat(c.Median),
			strconv.FormatBool(c.TimeWeighted),
		})
	}
	return renderCSV(rows)
}

func renderSensitivityCSV(result *models.SensitivityResult) ([]byte, error) {
	if result == nil || len(result.Rows) == 0 {
		return nil, nil
	}
	header := []string{"label", "gap_threshold_sec", "session_count"}
	for _, fraction := range result.Rows[0].FractionsByTurns {
		header = append(header, fmt.Sprintf("frac_turns_ge_%d", fraction.Threshold))
	}
	header = append(header, "mean_turn_count", "std_mean_turns_by_hour")

	rows := [][]string{header}
	for _, r := range result.Rows {
		row := []string{r.Label, formatFloat(r.GapThresholdSec), strconv.FormatInt(r.SessionCount, 10)}
		for _, fraction := range r.FractionsByTurns {
			row = append(row, formatFloat(fraction.Fraction))
		}
		row = append(row, formatFloat(r.MeanTurnCount), formatFloat(r.StdMeanTurnsByHour))
		rows = append(rows, row)
	}
	return renderCSV(rows)
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
