package models

// Session is a maximal run of temporally proximate events treated as one
// logical interaction. Sessions are a derived view: computed once by the
// segmenter and never mutated afterwards.
type Session struct {
	ID          int64   `json:"id"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	TurnCount   int64   `json:"turnCount"`
	DurationSec float64 `json:"durationSec"`
}

// HourOfDay returns the hour of day (0..23) of the session start.
func (s Session) HourOfDay() int {
	return HourOfDay(s.StartTime)
}

// DayIndex returns the calendar day index of the session start.
func (s Session) DayIndex() int64 {
	return DayIndex(s.StartTime)
}

// SessionTable is an immutable table of sessions in ascending id order.
// Ids are unique within one segmentation run but not stable across runs
// with different parameters.
type SessionTable struct {
	Sessions []Session

	// GapThresholdSec is the proximity threshold the table was segmented
	// with, 0 when ids were taken verbatim from the source trace.
	GapThresholdSec float64
}

// Len returns the number of sessions.
func (t *SessionTable) Len() int {
	return len(t.Sessions)
}

// TurnCounts returns the per-session turn counts as a float series, in table
// order. Used by aggregation and sensitivity statistics.
func (t *SessionTable) TurnCounts() []float64 {
	values := make([]float64, len(t.Sessions))
	for i, s := range t.Sessions {
		values[i] = float64(s.TurnCount)
	}
	return values
}

// FractionWithTurnsAtLeast returns the fraction of sessions whose turn count
// is >= k, or 0 for an empty table.
func (t *SessionTable) FractionWithTurnsAtLeast(k int64) float64 {
	if len(t.Sessions) == 0 {
		return 0
	}
	matched := 0
	for _, s := range t.Sessions {
		if s.TurnCount >= k {
			matched++
		}
	}
	return float64(matched) / float64(len(t.Sessions))
}
