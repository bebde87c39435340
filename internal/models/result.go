package models

// IntraDayCV summarizes the per-day coefficients of variation across the
// qualifying calendar days (>= 6 windows in the day and a positive day mean).
type IntraDayCV struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	DayCount int     `json:"dayCount"` // qualifying days
}

// InterDayCV is the mean coefficient of variation across hours of day, where
// each hour's CV is taken across all days sharing that hour.
type InterDayCV struct {
	Mean      float64 `json:"mean"`
	HourCount int     `json:"hourCount"` // hours whose guard was met
}

// VarianceDecomposition carries the three CV levels of a metric series.
// A nil level means its guard was never met: callers must distinguish
// "no data" from "zero variance".
type VarianceDecomposition struct {
	GlobalCV *float64    `json:"globalCv,omitempty"`
	IntraDay *IntraDayCV `json:"intraDay,omitempty"`
	InterDay *InterDayCV `json:"interDay,omitempty"`
}

// CurveCorrelation is the pairwise Pearson correlation between per-day
// hourly curves, over all day pairs sharing at least 6 valid hours.
type CurveCorrelation struct {
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	PairCount int     `json:"pairCount"`
}

// InterArrivalStats summarizes the positive gaps between consecutive events.
type InterArrivalStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int64   `json:"count"`
}

// AnalysisResult is the full output of one pipeline run. Every table is
// immutable once the run completes; downstream sinks (artifact store, report
// writer, results API) only read it.
type AnalysisResult struct {
	RunID          string  `json:"runId"`
	EventCount     int     `json:"eventCount"`
	DroppedRecords int     `json:"droppedRecords"`
	TraceStartSec  float64 `json:"traceStartSec"`
	TraceEndSec    float64 `json:"traceEndSec"`

	Sessions     *SessionTable          `json:"-"`
	Windows      *WindowTable           `json:"-"`
	HourOfDay    []HourOfDayRecord      `json:"hourOfDay"`
	Variance     *VarianceDecomposition `json:"variance,omitempty"`
	DailyCurves  *CurveCorrelation      `json:"dailyCurves,omitempty"`
	InterArrival *InterArrivalStats     `json:"interArrival,omitempty"`
	Concurrency  []ConcurrencySummary   `json:"concurrency"`
	Sensitivity  *SensitivityResult     `json:"sensitivity,omitempty"`
}
