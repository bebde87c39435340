package models

// ConcurrencyEvent is one endpoint of a synthetic active interval: +1 at the
// interval start, -1 just after the interval end.
type ConcurrencyEvent struct {
	Time  float64
	Delta int // +1 or -1
}

// ConcurrencySummary reports the concurrent-session load for one duration
// model, duration(turnCount) = turnCount * MultiplierSec.
type ConcurrencySummary struct {
	Label         string  `json:"label"` // e.g. "10s"
	MultiplierSec float64 `json:"multiplierSec"`
	Peak          int64   `json:"peak"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`

	// TimeWeighted is true when Mean and Median weight each concurrency
	// plateau by its duration; false for the event-indexed approximation
	// that weights each sweep event equally.
	TimeWeighted bool `json:"timeWeighted"`
}
