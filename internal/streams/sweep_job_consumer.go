package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"trace-analytics/internal/events"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/metrics"
	"trace-analytics/internal/shared/svcerrors"
	"trace-analytics/internal/shared/ulid"
)

// SweepJobHandler executes one sweep setting. Implementations capture the
// normalized event table for the run; the handler only sees the setting. A
// returned ServiceError marks that setting failed without affecting siblings.
type SweepJobHandler interface {
	Handle(ctx context.Context, event *events.SweepJobEvent) *svcerrors.ServiceError
}

//go:generate mockgen -source=sweep_job_consumer.go -destination=./mocks/sweep_job_consumer_mock.go -package=mocks
type SweepJobConsumer interface {
	Start(ctx context.Context)
	Wait()
	Stop()
}

type sweepJobConsumer struct {
	queue   *PartitionedQueue[events.SweepJobEvent]
	handler SweepJobHandler

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

func NewSweepJobConsumer(queue *PartitionedQueue[events.SweepJobEvent], handler SweepJobHandler, logger loggers.Logger) SweepJobConsumer {
	return &sweepJobConsumer{
		queue:   queue,
		handler: handler,
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
}

// Start spawns 1 worker goroutine per partition. Each partition is a
// single-writer lane for setting labels routed by the producer.
func (consumer *sweepJobConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func(partitionIndex int, ch <-chan events.SweepJobEvent) {
			defer consumer.wg.Done()

			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}(partitionIndex, ch)
	}
}

// Wait blocks until every partition worker has drained its closed channel and
// exited. Call after closing the queue.
func (consumer *sweepJobConsumer) Wait() {
	consumer.wg.Wait()
}

// Stop interrupts the workers without draining (best called during app
// shutdown).
func (consumer *sweepJobConsumer) Stop() {
	consumer.stopOnce.Do(func() { close(consumer.stopCh) })
	consumer.wg.Wait()
}

func (consumer *sweepJobConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan events.SweepJobEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-consumer.stopCh:
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			consumer.handleOne(ctx, partitionIndex, event)
		}
	}
}

// handleOne runs the handler for one setting with panic recovery, so a
// panicking setting cannot take down its partition worker.
func (consumer *sweepJobConsumer) handleOne(ctx context.Context, partitionIndex int, event events.SweepJobEvent) {
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Str(loggers.FieldGapLabel, event.Label).
				Msg("sweep worker panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}

			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricSweepJobConsumedTotal.WithLabelValues(streamSweepJob, svcErr.Code).Inc()
		}
	}()

	ctx = consumer.logger.With().
		Str(loggers.FieldPartitionId, fmt.Sprintf("%d", partitionIndex)).
		Str(loggers.FieldRunID, event.RunID).
		Str(loggers.FieldGapLabel, event.Label).
		Str(loggers.FieldRequestID, ulid.NewULID()).
		Logger().WithContext(ctx)

	svcError := consumer.handler.Handle(ctx, &event)
	if svcError != nil {
		metricSweepJobConsumedTotal.WithLabelValues(streamSweepJob, svcError.Code).Inc()
	} else {
		metricSweepJobConsumedTotal.WithLabelValues(streamSweepJob, metrics.ValueNoError).Inc()
	}
}
