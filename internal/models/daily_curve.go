package models

// HoursPerDay is the length of a daily hour-of-day curve.
const HoursPerDay = 24

// DailyCurve is one calendar day's vector of a metric at each hour of day.
// Used only for cross-day correlation, never persisted as primary state.
type DailyCurve struct {
	DayIndex int64
	Values   [HoursPerDay]float64
	Present  [HoursPerDay]bool
}

// CommonHours returns the hours of day at which both curves carry a value.
func (c DailyCurve) CommonHours(other DailyCurve) []int {
	var hours []int
	for h := 0; h < HoursPerDay; h++ {
		if c.Present[h] && other.Present[h] {
			hours = append(hours, h)
		}
	}
	return hours
}
