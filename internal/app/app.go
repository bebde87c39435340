package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trace-analytics/internal/aggregators"
	"trace-analytics/internal/decomposers"
	"trace-analytics/internal/estimators"
	internalhttp "trace-analytics/internal/http"
	"trace-analytics/internal/ingestors"
	"trace-analytics/internal/pipeline"
	"trace-analytics/internal/reports"
	"trace-analytics/internal/segmenters"
	"trace-analytics/internal/sensitivity"
	"trace-analytics/internal/shared/configs"
	"trace-analytics/internal/shared/filestorages"
	"trace-analytics/internal/shared/loggers"
	"trace-analytics/internal/stores"
)

// App wires the analysis pipeline, the artifact sinks and the optional
// results API, and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	analysisService pipeline.AnalysisService
	resultStore     stores.ResultStore
	reportWriter    reports.ReportWriter
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "trace-analytics").
		Logger()

	// Initialize blob store
	fileStorage, err := filestorages.NewFileStorage(config.Output.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize pipeline stages
	segmenter, err := segmenters.NewSessionSegmenter(config.Analysis.GapThresholdSec)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize segmenter: %w", err)
	}
	windowAggregator, err := aggregators.NewWindowAggregator(config.Analysis.BinWidthSec)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize window aggregator: %w", err)
	}
	var estimatorOpts []estimators.Option
	if config.Analysis.ConcurrencyStatistics == "event_indexed" {
		estimatorOpts = append(estimatorOpts, estimators.WithEventIndexedStatistics())
	}
	estimator, err := estimators.NewConcurrencyEstimator(config.Analysis.DurationModelMultipliers, estimatorOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize concurrency estimator: %w", err)
	}
	sweepLogger := appLogger.With().Str(loggers.FieldComponent, "sweep").Logger()
	sensitivityRunner, err := sensitivity.NewSensitivityRunner(
		config.Analysis.SensitivityGapThresholds,
		config.Analysis.TurnCountThresholds,
		sweepLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sensitivity runner: %w", err)
	}

	analysisService := pipeline.NewAnalysisService(
		ingestors.NewTraceLoader(),
		ingestors.NewTimestampNormalizer(),
		segmenter,
		windowAggregator,
		aggregators.NewHourOfDayAggregator(),
		decomposers.NewVarianceDecomposer(),
		estimator,
		sensitivityRunner,
		config.Analysis.MinSessionCountPerBin,
	)

	// Initialize sinks
	resultStore := stores.NewResultStore(fileStorage, config.Output.WriteCSV)
	reportWriter := reports.NewReportWriter(fileStorage)

	app := &App{
		config:          config,
		appLogger:       appLogger,
		analysisService: analysisService,
		resultStore:     resultStore,
		reportWriter:    reportWriter,
	}

	// Optional read-only results API
	if config.Server.Enabled {
		httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
		router := internalhttp.NewRouter(resultStore, httpLogger)
		app.server = &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
			ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
			WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
			IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
		}
	}

	return app, nil
}

// Analyze runs one batch analysis over the configured trace and persists the
// result artifacts. Returns the run id.
func (app *App) Analyze(ctx context.Context) (string, error) {
	ctx = app.appLogger.WithContext(ctx)

	result, err := app.analysisService.Run(ctx, app.config.Trace.Path)
	if err != nil {
		return "", fmt.Errorf("analysis run failed: %w", err)
	}
	if err := app.resultStore.Save(ctx, result); err != nil {
		return "", fmt.Errorf("failed to persist analysis result: %w", err)
	}
	if app.config.Output.WriteReport {
		if err := app.reportWriter.Write(ctx, result); err != nil {
			return "", fmt.Errorf("failed to write report: %w", err)
		}
	}

	app.appLogger.Info().
		Str(loggers.FieldRunID, result.RunID).
		Int("events", result.EventCount).
		Msg("analysis artifacts written")
	return result.RunID, nil
}

// ServesResults reports whether the optional results API is configured.
func (app *App) ServesResults() bool {
	return app.server != nil
}

// Start starts the results API server in a blocking manner.
func (app *App) Start() error {
	if app.server == nil {
		return nil
	}
	app.appLogger.Info().
		Msgf("Starting trace-analytics results API on port %d (log_level=%s, output_root_dir=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Output.RootDir)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the results API server.
func (app *App) Shutdown(ctx context.Context) error {
	if app.server == nil {
		return nil
	}
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")
	return nil
}
