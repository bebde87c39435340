package sensitivity

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trace-analytics/internal/aggregators"
	"trace-analytics/internal/events"
	"trace-analytics/internal/models"
	"trace-analytics/internal/segmenters"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/stats"
	"trace-analytics/internal/shared/svcerrors"
	"trace-analytics/internal/shared/ulid"
	"trace-analytics/internal/streams"
)

// SensitivityRunner re-runs segmentation and aggregation across a set of gap
// thresholds and tabulates how the headline statistics move with the
// heuristic choice. Settings run concurrently on the partitioned sweep
// queue; one failing setting is reported alongside its siblings, never
// instead of them.
//
//go:generate mockgen -source=sensitivity_runner.go -destination=./mocks/sensitivity_runner_mock.go -package=mocks
type SensitivityRunner interface {
	Sweep(ctx context.Context, table *models.EventTable) (*models.SensitivityResult, error)
}

type sensitivityRunner struct {
	gapThresholdsSec    []float64
	turnCountThresholds []int64
	hourAggregator      aggregators.HourOfDayAggregator
	logger              loggers.Logger
}

func NewSensitivityRunner(gapThresholdsSec []float64, turnCountThresholds []int64, logger loggers.Logger) (SensitivityRunner, error) {
	if len(gapThresholdsSec) == 0 {
		return nil, errInvalidGapThresholds("list is empty")
	}
	for _, gap := range gapThresholdsSec {
		if gap <= 0 {
			return nil, errInvalidGapThresholds(fmt.Sprintf("threshold must be positive, got %g", gap))
		}
	}
	if len(turnCountThresholds) == 0 {
		return nil, errEmptyTurnThresholds
	}

	gaps := make([]float64, len(gapThresholdsSec))
	copy(gaps, gapThresholdsSec)
	sort.Float64s(gaps)

	thresholds := make([]int64, len(turnCountThresholds))
	copy(thresholds, turnCountThresholds)
	sort.Slice(thresholds, func(i, j int) bool { return thresholds[i] < thresholds[j] })

	return &sensitivityRunner{
		gapThresholdsSec:    gaps,
		turnCountThresholds: thresholds,
		hourAggregator:      aggregators.NewHourOfDayAggregator(),
		logger:              logger,
	}, nil
}

func (r *sensitivityRunner) Sweep(ctx context.Context, table *models.EventTable) (*models.SensitivityResult, error) {
	runID := ulid.NewULID()

	collector := &sweepCollector{
		rows:     make(map[string]models.SensitivityRow),
		failures: make(map[string]models.SweepFailure),
	}
	handler := &settingHandler{
		table:               table,
		turnCountThresholds: r.turnCountThresholds,
		hourAggregator:      r.hourAggregator,
		collector:           collector,
	}

	queue := streams.NewPartitionedQueue[events.SweepJobEvent]()
	consumer := streams.NewSweepJobConsumer(queue, handler, r.logger)
	producer := streams.NewSweepJobProducer(queue)

	consumer.Start(ctx)

	jobs := make([]events.SweepJobEvent, 0, len(r.gapThresholdsSec))
	for _, gap := range r.gapThresholdsSec {
		jobs = append(jobs, events.SweepJobEvent{
			RunID:           runID,
			Label:           gapLabel(gap),
			GapThresholdSec: gap,
		})
	}
	if err := producer.Produce(ctx, jobs); err != nil {
		queue.Close()
		consumer.Wait()
		return nil, svcerrors.NewInternalError(codePublishFailed, err)
	}

	queue.Close()
	consumer.Wait()

	result := collector.assemble(jobs)
	if len(result.Rows) == 0 {
		if len(result.Failures) > 0 {
			loggers.Ctx(ctx).Error().
				Str(loggers.FieldRunID, runID).
				Int("failures", len(result.Failures)).
				Msg("sensitivity sweep produced no rows")
		}
		return nil, errNoSettingSucceeded
	}

	loggers.Ctx(ctx).Info().
		Str(loggers.FieldRunID, runID).
		Int("rows", len(result.Rows)).
		Int("failures", len(result.Failures)).
		Msg("sensitivity sweep completed")
	return result, nil
}

// settingHandler executes one sweep setting against the run's read-only
// event table and records the outcome on the shared collector.
type settingHandler struct {
	table               *models.EventTable
	turnCountThresholds []int64
	hourAggregator      aggregators.HourOfDayAggregator
	collector           *sweepCollector
}

func (h *settingHandler) Handle(ctx context.Context, event *events.SweepJobEvent) *svcerrors.ServiceError {
	row, svcErr := h.runSetting(ctx, event)
	if svcErr != nil {
		metricSweepSettingsTotal.WithLabelValues(outcomeFailed).Inc()
		h.collector.addFailure(models.SweepFailure{
			Label:     event.Label,
			ErrorCode: svcErr.Code,
			Message:   svcErr.Message,
		})
		return svcErr
	}
	metricSweepSettingsTotal.WithLabelValues(outcomeSucceeded).Inc()
	h.collector.addRow(*row)
	return nil
}

func (h *settingHandler) runSetting(ctx context.Context, event *events.SweepJobEvent) (*models.SensitivityRow, *svcerrors.ServiceError) {
	segmenter, err := segmenters.NewSessionSegmenter(event.GapThresholdSec)
	if err != nil {
		return nil, toServiceError(err)
	}
	sessions, err := segmenter.Segment(ctx, h.table)
	if err != nil {
		return nil, toServiceError(err)
	}

	fractions := make([]models.ThresholdFraction, 0, len(h.turnCountThresholds))
	for _, threshold := range h.turnCountThresholds {
		fractions = append(fractions, models.ThresholdFraction{
			Threshold: threshold,
			Fraction:  sessions.FractionWithTurnsAtLeast(threshold),
		})
	}

	hourly := h.hourAggregator.AggregateSessions(ctx, sessions)
	hourlyMeans := make([]float64, 0, len(hourly))
	for _, record := range hourly {
		hourlyMeans = append(hourlyMeans, record.Mean)
	}

	return &models.SensitivityRow{
		Label:              event.Label,
		GapThresholdSec:    event.GapThresholdSec,
		SessionCount:       int64(sessions.Len()),
		FractionsByTurns:   fractions,
		MeanTurnCount:      stats.Mean(sessions.TurnCounts()),
		StdMeanTurnsByHour: stats.SampleStd(hourlyMeans),
	}, nil
}

// sweepCollector gathers per-setting outcomes from concurrent workers.
type sweepCollector struct {
	mu       sync.Mutex
	rows     map[string]models.SensitivityRow
	failures map[string]models.SweepFailure
}

func (c *sweepCollector) addRow(row models.SensitivityRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[row.Label] = row
}

func (c *sweepCollector) addFailure(failure models.SweepFailure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[failure.Label] = failure
}

// assemble orders outcomes by the original job order (ascending gap).
func (c *sweepCollector) assemble(jobs []events.SweepJobEvent) *models.SensitivityResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &models.SensitivityResult{}
	for _, job := range jobs {
		if row, ok := c.rows[job.Label]; ok {
			result.Rows = append(result.Rows, row)
		}
		if failure, ok := c.failures[job.Label]; ok {
			result.Failures = append(result.Failures, failure)
		}
	}
	return result
}

func toServiceError(err error) *svcerrors.ServiceError {
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		return svcErr
	}
	return svcerrors.NewInternalErrorUndefined(err)
}

// gapLabel renders a gap threshold as a short label: whole minutes as "30m",
// anything else in seconds, e.g. "90s".
func gapLabel(gapSec float64) string {
	minutes := gapSec / 60
	if minutes == float64(int64(minutes)) {
		return fmt.Sprintf("%dm", int64(minutes))
	}
	return fmt.Sprintf("%gs", gapSec)
}
