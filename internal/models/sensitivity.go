package models

// ThresholdFraction is the fraction of sessions with turn count >= Threshold.
type ThresholdFraction struct {
	Threshold int64   `json:"threshold"`
	Fraction  float64 `json:"fraction"`
}

// SensitivityRow summarizes one parameter setting of the gap-threshold sweep.
type SensitivityRow struct {
	Label              string              `json:"label"` // e.g. "30m"
	GapThresholdSec    float64             `json:"gapThresholdSec"`
	SessionCount       int64               `json:"sessionCount"`
	FractionsByTurns   []ThresholdFraction `json:"fractionsByTurns"` // ascending threshold order
	MeanTurnCount      float64             `json:"meanTurnCount"`
	StdMeanTurnsByHour float64             `json:"stdMeanTurnsByHour"` // std of mean turn count across hours of day
}

// SweepFailure records one parameter setting that failed. Failures are
// captured per setting so one bad configuration does not hide results from
// the others.
type SweepFailure struct {
	Label     string `json:"label"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// SensitivityResult is the comparison table produced by the sweep, rows in
// ascending gap-threshold order.
type SensitivityResult struct {
	Rows     []SensitivityRow `json:"rows"`
	Failures []SweepFailure   `json:"failures,omitempty"`
}
