package ingestors

import (
	"context"
	"math"
	"sort"
	"strings"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
)

//go:generate mockgen -source=normalizer.go -destination=./mocks/normalizer_mock.go -package=mocks
type TimestampNormalizer interface {
	// Normalize validates the raw record stream into an ordered event table.
	// Records with missing or unparsable timestamps are dropped and counted;
	// an entirely unusable stream is an empty-input error.
	Normalize(ctx context.Context, load *LoadResult) (*models.EventTable, error)
}

type timestampNormalizer struct{}

func NewTimestampNormalizer() TimestampNormalizer {
	return &timestampNormalizer{}
}

func (n *timestampNormalizer) Normalize(ctx context.Context, load *LoadResult) (*models.EventTable, error) {
	events := make([]models.Event, 0, len(load.Records))
	dropped := 0
	for _, record := range load.Records {
		if !record.HasTimestamp || math.IsNaN(record.Timestamp) || math.IsInf(record.Timestamp, 0) {
			dropped++
			continue
		}
		event := models.Event{
			Timestamp:         record.Timestamp,
			Kind:              kindFromLabel(record.Kind),
			ExplicitSessionID: models.SessionIDMissing,
		}
		if record.HasSessionID {
			event.ExplicitSessionID = record.SessionID
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return nil, errEmptyTrace(dropped)
	}

	// Stable sort keeps arrival order for tied timestamps.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	metricRecordsNormalizedTotal.WithLabelValues().Add(float64(len(events)))
	metricRecordsDroppedTotal.WithLabelValues().Add(float64(dropped))
	loggers.Ctx(ctx).Info().
		Int("events", len(events)).
		Int("dropped", dropped).
		Msg("normalized trace records")

	return &models.EventTable{
		Events:                events,
		DroppedCount:          dropped,
		HasExplicitSessionIDs: load.HasSessionIDColumn,
	}, nil
}

// kindFromLabel maps a source trace kind label onto the event taxonomy.
// An absent label means a plain conversational event; anything that is not
// recognizably conversational is a marker.
func kindFromLabel(label string) models.EventKind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "conversation log", "conversational", "conversation":
		return models.KindConversational
	default:
		return models.KindOther
	}
}
