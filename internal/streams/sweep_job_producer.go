package streams

import (
	"context"

	"trace-analytics/internal/events"
)

// SweepJobProducer publishes one SweepJobEvent per parameter setting to a
// partitioned queue.
//
// The partition key is the setting's label, so re-publishing the same setting
// always lands in the same partition and is processed sequentially by that
// partition's single worker, while distinct settings spread across partitions
// and run concurrently.
//
//go:generate mockgen -source=sweep_job_producer.go -destination=./mocks/sweep_job_producer_mock.go -package=mocks
type SweepJobProducer interface {
	Produce(ctx context.Context, jobs []events.SweepJobEvent) error
}

type sweepJobProducer struct {
	queue *PartitionedQueue[events.SweepJobEvent]
}

func NewSweepJobProducer(queue *PartitionedQueue[events.SweepJobEvent]) SweepJobProducer {
	return &sweepJobProducer{
		queue: queue,
	}
}

func (producer *sweepJobProducer) Produce(ctx context.Context, jobs []events.SweepJobEvent) error {
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		producer.queue.Publish(job.Label, job)
		metricSweepJobProducedTotal.WithLabelValues(streamSweepJob).Inc()
	}
	return nil
}
