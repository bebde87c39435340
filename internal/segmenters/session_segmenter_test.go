package segmenters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/svcerrors"
)

func conversationalEvents(timestamps ...float64) []models.Event {
	events := make([]models.Event, len(timestamps))
	for i, ts := range timestamps {
		events[i] = models.Event{Timestamp: ts, Kind: models.KindConversational}
	}
	return events
}

func TestNewSessionSegmenter_InvalidGapThreshold(t *testing.T) {
	t.Parallel()

	for _, gap := range []float64{0, -1, -1800} {
		_, err := NewSessionSegmenter(gap)
		require.Error(t, err)
		svcErr, ok := svcerrors.AsServiceError(err)
		require.True(t, ok)
		assert.True(t, svcErr.IsInvalidArgument())
		assert.Equal(t, "SEG_1000", svcErr.Code)
	}
}

func TestSessionSegmenter_EmptyStream(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	_, err = segmenter.Segment(context.Background(), &models.EventTable{})
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.True(t, svcErr.IsEmptyInput())
}

func TestSessionSegmenter_SingleSessionWithinGap(t *testing.T) {
	t.Parallel()

	// Gaps of 100 and 1800 both stay within the threshold.
	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	table := &models.EventTable{Events: conversationalEvents(0, 100, 1900)}
	result, err := segmenter.Segment(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 1)
	session := result.Sessions[0]
	assert.Equal(t, int64(0), session.ID)
	assert.Equal(t, 0.0, session.StartTime)
	assert.Equal(t, 1900.0, session.EndTime)
	assert.Equal(t, int64(3), session.TurnCount)
	assert.Equal(t, 1900.0, session.DurationSec)
}

func TestSessionSegmenter_GapSplitsSessions(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(1000)
	require.NoError(t, err)

	table := &models.EventTable{Events: conversationalEvents(0, 100, 3000)}
	result, err := segmenter.Segment(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 2)
	assert.Equal(t, int64(0), result.Sessions[0].ID)
	assert.Equal(t, int64(2), result.Sessions[0].TurnCount)
	assert.Equal(t, int64(1), result.Sessions[1].ID)
	assert.Equal(t, int64(1), result.Sessions[1].TurnCount)
	assert.Equal(t, 3000.0, result.Sessions[1].StartTime)
}

func TestSessionSegmenter_GapAtThresholdDoesNotSplit(t *testing.T) {
	t.Parallel()

	// A gap exactly equal to the threshold stays in the same session; only
	// strictly greater gaps split.
	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	table := &models.EventTable{Events: conversationalEvents(0, 1800, 3600.5)}
	result, err := segmenter.Segment(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 2)
	assert.Equal(t, int64(2), result.Sessions[0].TurnCount)
	assert.Equal(t, int64(1), result.Sessions[1].TurnCount)
}

func TestSessionSegmenter_MarkerIsolatedIntoSingleton(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	events := []models.Event{
		{Timestamp: 0, Kind: models.KindConversational},
		{Timestamp: 100, Kind: models.KindOther},
		{Timestamp: 200, Kind: models.KindConversational},
	}
	result, err := segmenter.Segment(context.Background(), &models.EventTable{Events: events})
	require.NoError(t, err)

	require.Len(t, result.Sessions, 3)
	assert.Equal(t, int64(0), result.Sessions[0].ID)
	assert.Equal(t, int64(1), result.Sessions[1].ID)
	assert.Equal(t, int64(1), result.Sessions[1].TurnCount, "marker must stay a singleton")
	assert.Equal(t, int64(2), result.Sessions[2].ID)
}

func TestSessionSegmenter_MarkerFirstEvent(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	events := []models.Event{
		{Timestamp: 0, Kind: models.KindOther},
		{Timestamp: 10, Kind: models.KindConversational},
	}
	result, err := segmenter.Segment(context.Background(), &models.EventTable{Events: events})
	require.NoError(t, err)

	require.Len(t, result.Sessions, 2)
	assert.Equal(t, int64(0), result.Sessions[0].ID, "ids start at 0 even for a marker")
	assert.Equal(t, int64(1), result.Sessions[1].ID)
}

func TestSessionSegmenter_IDsNonDecreasingProperty(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(500)
	require.NoError(t, err)

	events := []models.Event{
		{Timestamp: 0, Kind: models.KindConversational},
		{Timestamp: 400, Kind: models.KindConversational},
		{Timestamp: 450, Kind: models.KindOther},
		{Timestamp: 500, Kind: models.KindConversational},
		{Timestamp: 2000, Kind: models.KindConversational},
		{Timestamp: 2100, Kind: models.KindOther},
		{Timestamp: 2101, Kind: models.KindOther},
		{Timestamp: 2102, Kind: models.KindConversational},
	}

	ids := segmenter.(*sessionSegmenter).AssignIDs(events)
	require.Len(t, ids, len(events), "every event receives exactly one session id")

	assert.Equal(t, int64(0), ids[0])
	for i := 1; i < len(ids); i++ {
		assert.GreaterOrEqual(t, ids[i], ids[i-1], "ids must be non-decreasing")
	}

	result, err := segmenter.Segment(context.Background(), &models.EventTable{Events: events})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Sessions), len(events), "session count is bounded by event count")
}

func TestSessionSegmenter_ExplicitIDsBypassGapRule(t *testing.T) {
	t.Parallel()

	segmenter, err := NewSessionSegmenter(1800)
	require.NoError(t, err)

	// Explicit ids group events even when they are far apart in time, and
	// missing values land in the sentinel -1 session.
	table := &models.EventTable{
		HasExplicitSessionIDs: true,
		Events: []models.Event{
			{Timestamp: 0, Kind: models.KindConversational, ExplicitSessionID: 7},
			{Timestamp: 50, Kind: models.KindConversational, ExplicitSessionID: models.SessionIDMissing},
			{Timestamp: 10000, Kind: models.KindConversational, ExplicitSessionID: 7},
			{Timestamp: 20000, Kind: models.KindConversational, ExplicitSessionID: 3},
		},
	}

	result, err := segmenter.Segment(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 3)
	assert.Equal(t, int64(models.SessionIDMissing), result.Sessions[0].ID)
	assert.Equal(t, int64(3), result.Sessions[1].ID)
	assert.Equal(t, int64(7), result.Sessions[2].ID)
	assert.Equal(t, int64(2), result.Sessions[2].TurnCount)
	assert.Equal(t, 0.0, result.Sessions[2].StartTime)
	assert.Equal(t, 10000.0, result.Sessions[2].EndTime)
}
