package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trace-analytics/internal/app"
	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/configs"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	days          = 3    // synthetic trace length in days
	burstsPerDay  = 12   // one burst every other hour
	turnsPerBurst = 4    // conversational events per burst
	turnGapSec    = 120  // spacing between events inside a burst
	gapSec        = 1800 // session gap threshold used by the run
)

// ### End - fixed configs

// main runs the e2e scenario: 001_synthetic_trace_analysis
//
// This scenario tests the end-to-end flow of trace loading, session
// segmentation, window aggregation and artifact persistence. It generates a
// deterministic multi-day trace, runs the batch analysis against it and
// verifies the persisted run summary.
//
// What it tests:
//   - CSV trace loading and timestamp normalization
//   - Gap-based session segmentation
//   - Window aggregation and hour-of-day re-aggregation
//   - Variance decomposition and daily-curve correlation guards
//   - Concurrency estimation across duration-model multipliers
//   - Sensitivity sweep across gap thresholds
//   - JSON/CSV/report artifact persistence under the output directory
//
// Expected results:
//   - days*burstsPerDay sessions under every gap threshold
//   - one window per burst, daily curves identical across days (corr = 1)
//   - peak concurrency 1 for every multiplier (bursts never overlap)
//   - every sweep setting succeeds with the same session count
func main() {
	workDir, err := os.MkdirTemp("", "trace-analytics-e2e-*")
	exitOn(err)
	defer os.RemoveAll(workDir)

	tracePath := filepath.Join(workDir, "trace.csv")
	exitOn(writeSyntheticTrace(tracePath))

	outputDir := filepath.Join(workDir, "output")
	cfg := &configs.Config{
		Log:   configs.LogConfig{Level: "warn"},
		Trace: configs.TraceConfig{Path: tracePath},
		Analysis: configs.AnalysisConfig{
			GapThresholdSec:          gapSec,
			BinWidthSec:              3600,
			MinSessionCountPerBin:    0,
			DurationModelMultipliers: []float64{10, 30},
			TurnCountThresholds:      []int64{2, 3},
			SensitivityGapThresholds: []float64{900, 1800, 3600},
			ConcurrencyStatistics:    "time_weighted",
		},
		Output: configs.OutputConfig{RootDir: outputDir, WriteCSV: true, WriteReport: true},
	}

	application, err := app.New(cfg)
	exitOn(err)

	runID, err := application.Analyze(context.Background())
	exitOn(err)

	result, err := readRunSummary(outputDir, runID)
	exitOn(err)

	failures := 0
	check := func(name string, got, want any) {
		if fmt.Sprint(got) != fmt.Sprint(want) {
			fmt.Printf("FAIL %s: got %v, want %v\n", name, got, want)
			failures++
			return
		}
		fmt.Printf("ok   %s = %v\n", name, got)
	}

	// Odd-indexed bursts carry one extra turn each.
	check("event_count", result.EventCount, days*(burstsPerDay*turnsPerBurst+burstsPerDay/2))
	check("dropped_records", result.DroppedRecords, 0)
	check("hour_of_day_rows", len(result.HourOfDay), burstsPerDay)
	check("concurrency_models", len(result.Concurrency), 2)
	for _, c := range result.Concurrency {
		check("peak_"+c.Label, c.Peak, 1)
	}
	if result.DailyCurves == nil {
		fmt.Println("FAIL daily_curves: missing")
		failures++
	} else {
		check("daily_curve_pairs", result.DailyCurves.PairCount, days*(days-1)/2)
	}
	if result.Sensitivity == nil {
		fmt.Println("FAIL sensitivity: missing")
		failures++
	} else {
		check("sweep_rows", len(result.Sensitivity.Rows), 3)
		check("sweep_failures", len(result.Sensitivity.Failures), 0)
		for _, row := range result.Sensitivity.Rows {
			check("sweep_sessions_"+row.Label, row.SessionCount, days*burstsPerDay)
		}
	}

	for _, name := range []string{"sessions.csv", "windows.csv", "hour_of_day.csv", "concurrency.csv", "sensitivity.csv", "report.md"} {
		path := filepath.Join(outputDir, "runs", runID, name)
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("FAIL artifact %s: %v\n", name, err)
			failures++
		} else {
			fmt.Printf("ok   artifact %s\n", name)
		}
	}

	if failures > 0 {
		fmt.Printf("scenario failed with %d mismatches\n", failures)
		os.Exit(1)
	}
	fmt.Println("scenario passed")
}

// writeSyntheticTrace lays one burst of conversational events every other
// hour, with turn counts varying by hour so daily curves are not flat.
func writeSyntheticTrace(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString("timestamp,log type\n"); err != nil {
		return err
	}
	for day := 0; day < days; day++ {
		for burst := 0; burst < burstsPerDay; burst++ {
			base := float64(day)*models.SecondsPerDay + float64(2*burst)*models.SecondsPerHour
			// Not every burst the same size, or correlation degenerates.
			extra := burst % 2
			for turn := 0; turn < turnsPerBurst+extra; turn++ {
				if _, err := fmt.Fprintf(file, "%.1f,conversation log\n", base+float64(turn*turnGapSec)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func readRunSummary(outputDir, runID string) (*models.AnalysisResult, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, "runs", runID, "result.json"))
	if err != nil {
		return nil, err
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "scenario setup failed: %v\n", err)
		os.Exit(1)
	}
}
