package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"log-analyzer/internal/aggregators"
	"log-analyzer/internal/parsers"
	"log-analyzer/internal/reports"
	"log-analyzer/internal/shared/configs"
	"log-analyzer/internal/shared/filestorages"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/metrics"
	"log-analyzer/internal/shared/svcerrors"
	"log-analyzer/internal/shared/ulid"
	"log-analyzer/internal/stores"
)

// Options carries the command line switches of one invocation.
type Options struct {
	// Force rebuilds the report even if one exists for the latest log.
	Force bool
	// SummaryRows prints that many top rows to SummaryWriter after a successful run.
	SummaryRows   int
	SummaryWriter io.Writer
	// LogWriter overrides the log target from the config.
	LogWriter io.Writer
}

// App holds all application dependencies of one analyzer run.
type App struct {
	config    *configs.Config
	options   Options
	appLogger loggers.Logger
	logOutput io.Closer

	logFileStore   stores.LogFileStore
	reportStore    stores.ReportStore
	logAggregator  aggregators.LogAggregator
	reportBuilder  reports.ReportBuilder
	reportRenderer reports.ReportRenderer
}

// New creates and initializes a new App instance.
func New(config *configs.Config, options Options) (*App, error) {
	logOutput, closer, err := openLogOutput(config.Log.File, options.LogWriter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	appLogger, err := loggers.New(config.Log.Level, logOutput)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger = appLogger.With().
		Str(loggers.FieldApp, "log-analyzer").
		Logger()

	// Initialize file storages
	logStorage, err := filestorages.NewFileStorage(config.Source.LogDir)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to initialize log storage: %w", err)
	}
	reportStorage, err := filestorages.NewFileStorage(config.Report.Dir)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}

	// Initialize report pipeline
	template, err := os.ReadFile(config.Report.TemplatePath)
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to read report template: %w", err)
	}
	reportRenderer, err := reports.NewReportRenderer(string(template))
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("failed to initialize report renderer %q: %w", config.Report.TemplatePath, err)
	}

	lineParser := parsers.NewLineParser(config.Parsing.MethodOffset)
	logAggregator := aggregators.NewLogAggregator(lineParser, aggregators.Config{
		ErrorThreshold: config.Parsing.ErrorThreshold,
		MinEntries:     int64(config.Parsing.MinEntries),
	})

	return &App{
		config:         config,
		options:        options,
		appLogger:      appLogger,
		logOutput:      closer,
		logFileStore:   stores.NewLogFileStore(logStorage),
		reportStore:    stores.NewReportStore(reportStorage),
		logAggregator:  logAggregator,
		reportBuilder:  reports.NewReportBuilder(config.Report.Size),
		reportRenderer: reportRenderer,
	}, nil
}

// Run analyzes the latest log once. The returned error is always a *svcerrors.ServiceError;
// skipped runs did nothing on purpose.
func (app *App) Run(ctx context.Context) (err error) {
	start := time.Now()
	runLogger := app.appLogger.With().
		Str(loggers.FieldRunID, ulid.NewRunID()).
		Logger()
	ctx = runLogger.WithContext(ctx)

	defer func() {
		if p := recover(); p != nil {
			runLogger.Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msgf("run panic recovered: %v", p)

			panicErr, ok := p.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", p)
			}
			err = svcerrors.NewInternalErrorPanic(panicErr)
		}
		app.completeRun(ctx, err, time.Since(start))
	}()

	runLogger.Info().
		Str("log_dir", app.config.Source.LogDir).
		Str("report_dir", app.config.Report.Dir).
		Bool("force", app.options.Force).
		Msg("run started")

	return app.run(ctx)
}

func (app *App) run(ctx context.Context) error {
	logFile, err := app.logFileStore.FindLatest(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errRunInterrupted(ctxErr)
		}
		if errors.Is(err, stores.ErrLogFileNotFound) {
			return errNoLogFile(err)
		}
		return errInternalLogDiscoveryFailed(err)
	}

	logger := loggers.Ctx(ctx).With().Str(loggers.FieldLogPath, logFile.Key).Logger()
	ctx = logger.WithContext(ctx)

	if !app.options.Force {
		exists, err := app.reportStore.Exists(ctx, logFile.Date)
		if err != nil {
			return errInternalReportCheckFailed(err)
		}
		if exists {
			return errReportAlreadyExists(stores.ErrReportAlreadyExists)
		}
	}

	reader, err := app.logFileStore.Open(ctx, logFile)
	if err != nil {
		return errInternalLogOpenFailed(err)
	}
	defer closeQuietly(reader)

	aggregatorCtx := logger.With().Str(loggers.FieldComponent, "aggregator").Logger().WithContext(ctx)
	result, err := app.logAggregator.Aggregate(aggregatorCtx, logFile.Key, aggregators.NewLineSource(reader))
	if err != nil {
		return err
	}

	rows := app.reportBuilder.Build(result)

	// The report is rendered in memory first so a failure leaves nothing behind.
	var report bytes.Buffer
	if err := app.reportRenderer.Render(&report, rows); err != nil {
		return errInternalReportRenderFailed(err)
	}

	reportKey, err := app.reportStore.Put(ctx, logFile.Date, &report, app.options.Force)
	if err != nil {
		if errors.Is(err, stores.ErrReportAlreadyExists) {
			return errReportAlreadyExists(err)
		}
		return errInternalReportStoreFailed(err)
	}
	metricReportRows.Set(float64(len(rows)))

	logger.Info().
		Str(loggers.FieldReportPath, reportKey).
		Int("rows", len(rows)).
		Int64("lines", result.LinesProcessed).
		Int64("parse_errors", result.ParseErrorCount).
		Msg("report written")

	if app.options.SummaryRows > 0 && app.options.SummaryWriter != nil {
		reports.WriteSummary(app.options.SummaryWriter, rows, app.options.SummaryRows)
	}
	return nil
}

// completeRun logs the outcome of a run and exports the run metrics.
func (app *App) completeRun(ctx context.Context, err error, duration time.Duration) {
	logger := loggers.Ctx(ctx)
	metricRunDuration.Set(duration.Seconds())

	result := resultSuccess
	if err != nil {
		svcErr, ok := svcerrors.AsServiceError(err)
		if !ok {
			svcErr = svcerrors.NewInternalErrorUndefined(err)
		}
		result = svcErr.Category

		event := logger.Error()
		if svcErr.IsSkipped() {
			event = logger.Info()
		}
		event.
			Err(svcErr.Cause).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Int64(loggers.FieldDuration, duration.Milliseconds()).
			Msg(svcErr.Message)
	} else {
		logger.Info().
			Int64(loggers.FieldDuration, duration.Milliseconds()).
			Msg("run completed")
	}
	metricRunTotal.WithLabelValues(result).Inc()

	if app.config.Metrics.TextfilePath == "" {
		return
	}
	if err := metrics.WriteToTextfile(app.config.Metrics.TextfilePath); err != nil {
		logger.Error().Err(err).Msg("failed to write metrics textfile")
	}
}

// Close releases the log file opened by New, if any.
func (app *App) Close() error {
	if app.logOutput == nil {
		return nil
	}
	return app.logOutput.Close()
}

// openLogOutput picks the log target: the override, the configured file opened for append, or stderr.
func openLogOutput(path string, override io.Writer) (io.Writer, io.Closer, error) {
	if override != nil {
		return override, nil, nil
	}
	if path == "" {
		return os.Stderr, nil, nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
