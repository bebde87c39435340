package segmenters

import (
	"context"
	"math"
	"sort"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
)

//go:generate mockgen -source=session_segmenter.go -destination=./mocks/session_segmenter_mock.go -package=mocks
type SessionSegmenter interface {
	// Segment assigns session ids to the ordered event stream and returns the
	// derived session table. When the table carries explicit session ids the
	// proximity rule is bypassed and ids are taken verbatim.
	Segment(ctx context.Context, table *models.EventTable) (*models.SessionTable, error)

	// AssignIDs returns the per-event session ids without building sessions.
	AssignIDs(events []models.Event) []int64
}

type sessionSegmenter struct {
	gapThresholdSec float64
}

func NewSessionSegmenter(gapThresholdSec float64) (SessionSegmenter, error) {
	if gapThresholdSec <= 0 {
		return nil, errInvalidGapThreshold(gapThresholdSec)
	}
	return &sessionSegmenter{gapThresholdSec: gapThresholdSec}, nil
}

// cursor is the accumulator threaded through the left-to-right segmentation
// fold: the timestamp of the previous event, the highest id issued so far,
// and whether the current session may still be joined (a marker seals it).
type cursor struct {
	previousTimestamp float64
	sessionID         int64
	joinable          bool
}

// next returns the session id for event and the updated accumulator.
func (s *sessionSegmenter) next(cur cursor, event models.Event) (int64, cursor) {
	if event.Kind != models.KindConversational {
		// A marker is isolated into its own singleton session. Its timestamp
		// still advances the proximity cursor, but the session it occupies
		// cannot be joined by later events.
		id := cur.sessionID + 1
		return id, cursor{previousTimestamp: event.Timestamp, sessionID: id, joinable: false}
	}

	id := cur.sessionID
	if !cur.joinable || event.Timestamp-cur.previousTimestamp > s.gapThresholdSec {
		id = cur.sessionID + 1
	}
	return id, cursor{previousTimestamp: event.Timestamp, sessionID: id, joinable: true}
}

func (s *sessionSegmenter) AssignIDs(events []models.Event) []int64 {
	ids := make([]int64, len(events))
	cur := cursor{previousTimestamp: math.Inf(-1), sessionID: -1}
	for i, event := range events {
		ids[i], cur = s.next(cur, event)
	}
	return ids
}

func (s *sessionSegmenter) Segment(ctx context.Context, table *models.EventTable) (*models.SessionTable, error) {
	if table == nil || table.Len() == 0 {
		return nil, errEmptyEventStream()
	}

	if table.HasExplicitSessionIDs {
		return s.segmentExplicit(ctx, table)
	}

	ids := s.AssignIDs(table.Events)
	sessions := buildContiguousSessions(table.Events, ids)

	metricSessionsSegmentedTotal.WithLabelValues(modeInferred).Add(float64(len(sessions)))
	loggers.Ctx(ctx).Debug().
		Int("events", table.Len()).
		Int("sessions", len(sessions)).
		Float64("gap_threshold_sec", s.gapThresholdSec).
		Msg("segmented events into sessions")

	return &models.SessionTable{Sessions: sessions, GapThresholdSec: s.gapThresholdSec}, nil
}

// segmentExplicit groups events by the session id carried in the source
// trace. Events without a value fall into the sentinel id -1 group.
func (s *sessionSegmenter) segmentExplicit(ctx context.Context, table *models.EventTable) (*models.SessionTable, error) {
	type group struct {
		start float64
		end   float64
		turns int64
	}
	groups := make(map[int64]*group)
	for _, event := range table.Events {
		g, ok := groups[event.ExplicitSessionID]
		if !ok {
			groups[event.ExplicitSessionID] = &group{start: event.Timestamp, end: event.Timestamp, turns: 1}
			continue
		}
		if event.Timestamp < g.start {
			g.start = event.Timestamp
		}
		if event.Timestamp > g.end {
			g.end = event.Timestamp
		}
		g.turns++
	}

	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		sessions = append(sessions, models.Session{
			ID:          id,
			StartTime:   g.start,
			EndTime:     g.end,
			TurnCount:   g.turns,
			DurationSec: clampNonNegative(g.end - g.start),
		})
	}

	metricSessionsSegmentedTotal.WithLabelValues(modeExplicit).Add(float64(len(sessions)))
	loggers.Ctx(ctx).Debug().
		Int("events", table.Len()).
		Int("sessions", len(sessions)).
		Msg("grouped events by explicit session ids")

	return &models.SessionTable{Sessions: sessions}, nil
}

// buildContiguousSessions folds a run of equal ids into one session row.
// Events are already time-ordered, so each session's first event is its start
// and its last event is its end.
func buildContiguousSessions(events []models.Event, ids []int64) []models.Session {
	sessions := make([]models.Session, 0)
	for i := 0; i < len(events); {
		j := i
		for j < len(events) && ids[j] == ids[i] {
			j++
		}
		start := events[i].Timestamp
		end := events[j-1].Timestamp
		sessions = append(sessions, models.Session{
			ID:          ids[i],
			StartTime:   start,
			EndTime:     end,
			TurnCount:   int64(j - i),
			DurationSec: clampNonNegative(end - start),
		})
		i = j
	}
	return sessions
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
