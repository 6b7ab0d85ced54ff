package aggregators

import (
	"context"
	"math"
	"unicode/utf8"

	"log-analyzer/internal/models"
	"log-analyzer/internal/parsers"
	"log-analyzer/internal/shared/loggers"
	"log-analyzer/internal/shared/validators"
	"log-analyzer/internal/statistics"
)

const (
	DefaultErrorThreshold = 0.4
	DefaultMinEntries     = 10
)

// Config holds the parse error circuit breaker settings of one run.
type Config struct {
	// ErrorThreshold is the largest tolerated share of failed lines.
	ErrorThreshold float64
	// MinEntries is the number of lines that must be seen before the breaker may trip.
	MinEntries int64
}

//go:generate mockgen -source=log_aggregator.go -destination=./mocks/log_aggregator_mock.go -package=mocks
type LogAggregator interface {
	// Aggregate reads every line of one log and returns finalized per-URL statistics.
	// sourceName only labels log messages. The pass is aborted, and no result is
	// returned, as soon as the share of failed lines exceeds the configured threshold.
	Aggregate(ctx context.Context, sourceName string, lines LineSource) (*models.AggregateResult, error)
}

type logAggregator struct {
	lineParser parsers.LineParser
	validate   *validators.Validate
	config     Config
}

func NewLogAggregator(lineParser parsers.LineParser, config Config) LogAggregator {
	return &logAggregator{
		lineParser: lineParser,
		validate:   validators.New(),
		config:     config,
	}
}

// aggregateState is owned by a single Aggregate call.
type aggregateState struct {
	urls             map[string]*statistics.Accumulator
	totalCount       int64
	totalRequestTime float64
	parseErrorCount  int64
	linesProcessed   int64
}

func (a *logAggregator) Aggregate(ctx context.Context, sourceName string, lines LineSource) (*models.AggregateResult, error) {
	logger := loggers.Ctx(ctx)
	logger.Debug().Str(loggers.FieldLogPath, sourceName).Msg("started parsing log")

	state := &aggregateState{urls: make(map[string]*statistics.Accumulator)}

	for lines.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, errAggregationInterrupted(err)
		}

		a.handleLine(ctx, state, sourceName, lines.Text(), lines.LineErr())

		if a.tooManyParseErrors(state) {
			logger.Error().
				Str(loggers.FieldLogPath, sourceName).
				Int64("parse_errors", state.parseErrorCount).
				Int64("lines", state.linesProcessed).
				Msg("too many parse errors, stopped parsing")
			return nil, errParseErrorThresholdExceeded(state.parseErrorCount, state.linesProcessed, a.config.ErrorThreshold)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, errInternalLogReadFailed(err)
	}

	logger.Info().
		Str(loggers.FieldLogPath, sourceName).
		Int64("lines", state.linesProcessed).
		Int64("parse_errors", state.parseErrorCount).
		Int("urls", len(state.urls)).
		Msg("done parsing")

	return a.finalize(state)
}

// handleLine routes one line; every failure is recovered here and counted.
func (a *logAggregator) handleLine(ctx context.Context, state *aggregateState, sourceName, line string, lineErr error) {
	logger := loggers.Ctx(ctx)
	state.linesProcessed++

	if lineErr != nil {
		state.parseErrorCount++
		metricLinesHardError.Inc()
		logger.Error().
			Err(lineErr).
			Str(loggers.FieldLogPath, sourceName).
			Int64("line_number", state.linesProcessed).
			Msg("failed to read log line")
		return
	}

	if !utf8.ValidString(line) {
		state.parseErrorCount++
		metricLinesHardError.Inc()
		logger.Error().
			Str(loggers.FieldLogPath, sourceName).
			Str(loggers.FieldLogLine, line).
			Msg("failed to decode log line as utf-8")
		return
	}

	entry, err := a.lineParser.Parse(line)
	if err != nil {
		state.parseErrorCount++
		if parsers.IsSoftError(err) {
			metricLinesSoftError.Inc()
			logger.Debug().
				Err(err).
				Str(loggers.FieldLogLine, line).
				Msg("skipped log line")
			return
		}
		metricLinesHardError.Inc()
		logger.Error().
			Err(err).
			Str(loggers.FieldLogPath, sourceName).
			Str(loggers.FieldLogLine, line).
			Msg("failed to parse log line")
		return
	}

	if !a.countRequestTime(state, entry) {
		state.parseErrorCount++
		metricLinesRejected.Inc()
		logger.Debug().
			Str(loggers.FieldLogLine, line).
			Msg("rejected log entry")
		return
	}
	metricLinesOK.Inc()
}

// countRequestTime adds one entry to the URL statistics and the run totals.
// It reports false when the entry is missing a URL, carries an unusable time
// or would push the total request time out of float64 range.
func (a *logAggregator) countRequestTime(state *aggregateState, entry *models.ParsedEntry) bool {
	if err := a.validate.Struct(entry); err != nil {
		return false
	}
	// finite samples may still overflow the run total
	if math.IsInf(entry.RequestTime, 0) || math.IsInf(state.totalRequestTime+entry.RequestTime, 0) {
		return false
	}

	acc, ok := state.urls[entry.URL]
	if !ok {
		acc = statistics.NewAccumulator()
		state.urls[entry.URL] = acc
	}
	acc.AddSample(entry.RequestTime)

	state.totalRequestTime += entry.RequestTime
	state.totalCount++
	return true
}

// tooManyParseErrors is the circuit breaker, relative to every line seen so far.
func (a *logAggregator) tooManyParseErrors(state *aggregateState) bool {
	return state.linesProcessed > a.config.MinEntries &&
		float64(state.parseErrorCount)/float64(state.linesProcessed) > a.config.ErrorThreshold
}

func (a *logAggregator) finalize(state *aggregateState) (*models.AggregateResult, error) {
	result := &models.AggregateResult{
		Statistics:       make(map[string]*statistics.Statistics, len(state.urls)),
		TotalCount:       state.totalCount,
		TotalRequestTime: state.totalRequestTime,
		ParseErrorCount:  state.parseErrorCount,
		LinesProcessed:   state.linesProcessed,
	}

	for url, acc := range state.urls {
		stats, err := acc.Finalize()
		if err != nil {
			return nil, errInternalStatisticsFinalize(url, err)
		}
		result.Statistics[url] = stats
	}

	return result, nil
}
