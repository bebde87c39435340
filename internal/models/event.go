package models

// Time arithmetic is done on raw float64 seconds rather than time.Time:
// public workload traces anchor timestamps at second 0 of the first trace
// day, not at a wall-clock epoch.
const (
	SecondsPerHour = 3600.0
	SecondsPerDay  = 86400.0
)

// EventKind distinguishes conversational events, which participate in the
// proximity-gap rule, from marker events that are isolated into singleton
// sessions.
type EventKind int

const (
	KindConversational EventKind = iota
	KindOther
)

func (k EventKind) String() string {
	if k == KindConversational {
		return "conversational"
	}
	return "other"
}

// SessionIDMissing is the sentinel id assigned to events whose trace carries
// an explicit session id column but leaves the value blank.
const SessionIDMissing int64 = -1

// Event is a single normalized trace record.
type Event struct {
	Timestamp float64   `json:"timestamp"` // seconds
	Kind      EventKind `json:"kind"`
	// ExplicitSessionID is the id carried by the source trace, or
	// SessionIDMissing. Only meaningful when the owning table reports
	// HasExplicitSessionIDs.
	ExplicitSessionID int64 `json:"explicitSessionId"`
}

// HourOfDay returns the wall-clock-day-agnostic hour (0..23) of the event.
func (e Event) HourOfDay() int {
	return HourOfDay(e.Timestamp)
}

// EventTable is the normalized, immutable event stream: sorted ascending by
// timestamp with ties in original arrival order. All pipeline stages take it
// by read-only reference and never mutate it.
type EventTable struct {
	Events []Event

	// DroppedCount is the number of raw records discarded during
	// normalization for missing or unparsable timestamps.
	DroppedCount int

	// HasExplicitSessionIDs is true when the source trace carried a session
	// id column, in which case segmentation is bypassed.
	HasExplicitSessionIDs bool
}

// Len returns the number of usable events.
func (t *EventTable) Len() int {
	return len(t.Events)
}

// HourOfDay maps a timestamp in seconds to its hour of day (0..23),
// ignoring the calendar date.
func HourOfDay(timestamp float64) int {
	secondsIntoDay := timestamp - float64(int64(timestamp/SecondsPerDay))*SecondsPerDay
	if secondsIntoDay < 0 {
		secondsIntoDay += SecondsPerDay
	}
	hour := int(secondsIntoDay / SecondsPerHour)
	if hour > 23 {
		hour = 23
	}
	return hour
}

// DayIndex maps a timestamp in seconds to its calendar day index from the
// trace epoch.
func DayIndex(timestamp float64) int64 {
	day := int64(timestamp / SecondsPerDay)
	if timestamp < 0 && timestamp != float64(day)*SecondsPerDay {
		day--
	}
	return day
}
