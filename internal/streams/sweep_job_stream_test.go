package streams

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-analytics/internal/events"
	"trace-analytics/internal/shared/svcerrors"
)

// recordingHandler collects the labels it was asked to handle.
type recordingHandler struct {
	mu      sync.Mutex
	labels  []string
	failOn  string
	panicOn string
}

func (h *recordingHandler) Handle(_ context.Context, event *events.SweepJobEvent) *svcerrors.ServiceError {
	if event.Label == h.panicOn {
		panic("boom")
	}
	h.mu.Lock()
	h.labels = append(h.labels, event.Label)
	h.mu.Unlock()
	if event.Label == h.failOn {
		return svcerrors.NewInternalErrorUndefined(nil)
	}
	return nil
}

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.labels))
	copy(out, h.labels)
	sort.Strings(out)
	return out
}

func TestPartitionedQueue_SameKeySamePartition(t *testing.T) {
	t.Parallel()

	n := defaultNumPartitions
	first := partitionIndex("30m", n)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, partitionIndex("30m", n))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, n)
}

func TestSweepJobStream_AllJobsHandled(t *testing.T) {
	t.Parallel()

	queue := NewPartitionedQueue[events.SweepJobEvent]()
	handler := &recordingHandler{}
	consumer := NewSweepJobConsumer(queue, handler, zerolog.Nop())
	producer := NewSweepJobProducer(queue)

	consumer.Start(context.Background())

	jobs := []events.SweepJobEvent{
		{RunID: "run-1", Label: "15m", GapThresholdSec: 900},
		{RunID: "run-1", Label: "30m", GapThresholdSec: 1800},
		{RunID: "run-1", Label: "60m", GapThresholdSec: 3600},
	}
	require.NoError(t, producer.Produce(context.Background(), jobs))

	queue.Close()
	consumer.Wait()

	assert.Equal(t, []string{"15m", "30m", "60m"}, handler.seen())
}

func TestSweepJobStream_FailedSettingDoesNotStopSiblings(t *testing.T) {
	t.Parallel()

	queue := NewPartitionedQueue[events.SweepJobEvent]()
	handler := &recordingHandler{failOn: "30m"}
	consumer := NewSweepJobConsumer(queue, handler, zerolog.Nop())
	producer := NewSweepJobProducer(queue)

	consumer.Start(context.Background())
	require.NoError(t, producer.Produce(context.Background(), []events.SweepJobEvent{
		{RunID: "run-1", Label: "15m", GapThresholdSec: 900},
		{RunID: "run-1", Label: "30m", GapThresholdSec: 1800},
		{RunID: "run-1", Label: "60m", GapThresholdSec: 3600},
	}))

	queue.Close()
	consumer.Wait()

	assert.Equal(t, []string{"15m", "30m", "60m"}, handler.seen())
}

func TestSweepJobStream_PanickingSettingIsRecovered(t *testing.T) {
	t.Parallel()

	queue := NewPartitionedQueue[events.SweepJobEvent]()
	handler := &recordingHandler{panicOn: "30m"}
	consumer := NewSweepJobConsumer(queue, handler, zerolog.Nop())
	producer := NewSweepJobProducer(queue)

	consumer.Start(context.Background())
	require.NoError(t, producer.Produce(context.Background(), []events.SweepJobEvent{
		{RunID: "run-1", Label: "30m", GapThresholdSec: 1800},
		{RunID: "run-1", Label: "60m", GapThresholdSec: 3600},
	}))

	queue.Close()
	consumer.Wait()

	assert.Equal(t, []string{"60m"}, handler.seen())
}

func TestSweepJobProducer_CancelledContext(t *testing.T) {
	t.Parallel()

	queue := NewPartitionedQueue[events.SweepJobEvent]()
	producer := NewSweepJobProducer(queue)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := producer.Produce(ctx, []events.SweepJobEvent{
		{RunID: "run-1", Label: "30m", GapThresholdSec: 1800},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
