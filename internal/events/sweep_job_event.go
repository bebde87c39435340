package events

// SweepJobEvent is one parameter setting of a sensitivity sweep, published to
// the partitioned sweep queue and consumed by a single worker per partition.
// The normalized event table itself is not carried on the event; the handler
// holds a read-only reference to it for the whole run.
//
// Example JSON:
//
//	{
//	  "runId": "01ARZ3NDEKTSV4RRFFQ69G5FAV",
//	  "label": "30m",
//	  "gapThresholdSec": 1800
//	}
type SweepJobEvent struct {
	RunID           string  `json:"runId"`
	Label           string  `json:"label"`
	GapThresholdSec float64 `json:"gapThresholdSec"`
}
