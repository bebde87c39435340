package models

// Window is one fixed-width time bucket of an aggregated value series.
// Only buckets actually observed in the data are materialized: sparse time
// ranges are represented by absent rows, never by zero-count rows.
type Window struct {
	BinStart float64 `json:"binStart"`
	BinEnd   float64 `json:"binEnd"`
	Count    int64   `json:"count"`
	Mean     float64 `json:"mean"`
	P90      float64 `json:"p90"`
	P95      float64 `json:"p95"`
}

// HourOfDay returns the hour of day (0..23) of the window start.
func (w Window) HourOfDay() int {
	return HourOfDay(w.BinStart)
}

// DayIndex returns the calendar day index of the window start.
func (w Window) DayIndex() int64 {
	return DayIndex(w.BinStart)
}

// WindowTable is an immutable table of windows in ascending bin-start order.
type WindowTable struct {
	Windows []Window

	// BinWidthSec is the bucket width the table was aggregated with.
	BinWidthSec float64
}

// Len returns the number of materialized windows.
func (t *WindowTable) Len() int {
	return len(t.Windows)
}

// Means returns the per-window means as a series in bin-start order.
func (t *WindowTable) Means() []float64 {
	values := make([]float64, len(t.Windows))
	for i, w := range t.Windows {
		values[i] = w.Mean
	}
	return values
}

// HourOfDayRecord aggregates all windows whose start falls in one hour of
// day, across all calendar days of the trace.
type HourOfDayRecord struct {
	Hour        int     `json:"hour"` // 0..23
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"` // sample std, ddof=1
	P10         float64 `json:"p10"`
	P90         float64 `json:"p90"`
	SampleCount int64   `json:"sampleCount"`
}
