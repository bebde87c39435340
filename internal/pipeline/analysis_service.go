package pipeline

import (
	"context"

	"trace-analytics/internal/aggregators"
	"trace-analytics/internal/decomposers"
	"trace-analytics/internal/estimators"
	"trace-analytics/internal/ingestors"
	"trace-analytics/internal/models"
	"trace-analytics/internal/segmenters"
	"trace-analytics/internal/sensitivity"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/shared/svcerrors"
	"trace-analytics/internal/shared/ulid"
)

// AnalysisService runs the whole trace analysis in one batch pass:
// load -> normalize -> segment -> window aggregation -> hour-of-day,
// variance, daily-curve, inter-arrival, concurrency and sensitivity
// summaries. Structural errors on the main path abort the run; summary
// stages whose data guards are unmet come back nil instead of failing
// the run.
//
//go:generate mockgen -source=analysis_service.go -destination=./mocks/analysis_service_mock.go -package=mocks
type AnalysisService interface {
	Run(ctx context.Context, tracePath string) (*models.AnalysisResult, error)
}

type analysisService struct {
	loader     ingestors.TraceLoader
	normalizer ingestors.TimestampNormalizer
	segmenter  segmenters.SessionSegmenter
	windowAgg  aggregators.WindowAggregator
	hourAgg    aggregators.HourOfDayAggregator
	decomposer decomposers.VarianceDecomposer
	estimator  estimators.ConcurrencyEstimator
	runner     sensitivity.SensitivityRunner

	minSessionCountPerBin int64
}

func NewAnalysisService(
	loader ingestors.TraceLoader,
	normalizer ingestors.TimestampNormalizer,
	segmenter segmenters.SessionSegmenter,
	windowAgg aggregators.WindowAggregator,
	hourAgg aggregators.HourOfDayAggregator,
	decomposer decomposers.VarianceDecomposer,
	estimator estimators.ConcurrencyEstimator,
	runner sensitivity.SensitivityRunner,
	minSessionCountPerBin int64,
) AnalysisService {
	return &analysisService{
		loader:                loader,
		normalizer:            normalizer,
		segmenter:             segmenter,
		windowAgg:             windowAgg,
		hourAgg:               hourAgg,
		decomposer:            decomposer,
		estimator:             estimator,
		runner:                runner,
		minSessionCountPerBin: minSessionCountPerBin,
	}
}

func (s *analysisService) Run(ctx context.Context, tracePath string) (*models.AnalysisResult, error) {
	runID := ulid.NewULID()
	ctx = loggers.Ctx(ctx).With().
		Str(loggers.FieldRunID, runID).
		Logger().WithContext(ctx)
	logger := loggers.Ctx(ctx)

	load, err := s.loader.Load(ctx, tracePath)
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}
	table, err := s.normalizer.Normalize(ctx, load)
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}
	logger.Info().
		Int("events", table.Len()).
		Int("dropped", table.DroppedCount).
		Bool("explicit_session_ids", table.HasExplicitSessionIDs).
		Msg("trace normalized")

	sessions, err := s.segmenter.Segment(ctx, table)
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}
	windows, err := s.windowAgg.Aggregate(ctx, aggregators.SamplesFromSessions(sessions))
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}

	result := &models.AnalysisResult{
		RunID:          runID,
		EventCount:     table.Len(),
		DroppedRecords: table.DroppedCount,
		TraceStartSec:  table.Events[0].Timestamp,
		TraceEndSec:    table.Events[table.Len()-1].Timestamp,
		Sessions:       sessions,
		Windows:        windows,
		HourOfDay:      s.hourAgg.AggregateWindows(ctx, windows),
		InterArrival:   aggregators.ComputeInterArrivalStats(ctx, sessions),
	}

	// Trend statistics run on the filtered table so sparse bins cannot
	// dominate them; the primary window table stays unfiltered.
	filtered, err := sensitivity.FilterSparseBins(ctx, windows, s.minSessionCountPerBin)
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}
	result.Variance = s.decompose(ctx, filtered)
	result.DailyCurves = decomposers.CorrelateDailyCurves(ctx, decomposers.BuildDailyCurves(ctx, filtered))

	concurrency, err := s.estimator.Estimate(ctx, sessions)
	if err != nil {
		return nil, errInternalPipelineFailed(err)
	}
	result.Concurrency = concurrency

	result.Sensitivity = s.sweep(ctx, table)

	logger.Info().
		Int("sessions", sessions.Len()).
		Int("windows", windows.Len()).
		Msg("analysis run completed")
	return result, nil
}

// decompose tolerates unmet data guards: a trace too sparse for variance
// decomposition still yields every other table.
func (s *analysisService) decompose(ctx context.Context, windows *models.WindowTable) *models.VarianceDecomposition {
	decomposition, err := s.decomposer.Decompose(ctx, windows)
	if err != nil {
		if svcerrors.IsEmptyInput(err) || svcerrors.IsInsufficientData(err) {
			loggers.Ctx(ctx).Warn().Err(err).Msg("variance decomposition skipped")
			return nil
		}
		loggers.Ctx(ctx).Error().Err(err).Msg("variance decomposition failed")
		return nil
	}
	return decomposition
}

// sweep captures per-setting failures inside the result; only a sweep with
// zero surviving settings comes back nil.
func (s *analysisService) sweep(ctx context.Context, table *models.EventTable) *models.SensitivityResult {
	result, err := s.runner.Sweep(ctx, table)
	if err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Msg("sensitivity sweep produced no rows")
		return nil
	}
	return result
}
