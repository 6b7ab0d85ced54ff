package aggregators

import (
	"fmt"

	"log-analyzer/internal/shared/svcerrors"
)

const (
	codeParseErrorThresholdExceeded = "AGG_2000"
	codeAggregationInterrupted      = "AGG_2001"

	codeInternalLogReadFailed      = "AGG_9000"
	codeInternalStatisticsFinalize = "AGG_9001"
)

// errParseErrorThresholdExceeded returns an error when the parse error circuit breaker trips.
func errParseErrorThresholdExceeded(parseErrors, lines int64, threshold float64) *svcerrors.ServiceError {
	return svcerrors.NewAbortedError(codeParseErrorThresholdExceeded, "too many parse errors, stopped parsing",
		fmt.Errorf("%d of %d lines failed to parse, threshold %.2f", parseErrors, lines, threshold))
}

// errAggregationInterrupted returns an error when the pass is cancelled before the end of the log.
func errAggregationInterrupted(cause error) *svcerrors.ServiceError {
	return svcerrors.NewAbortedError(codeAggregationInterrupted, "aggregation interrupted", cause)
}

// errInternalLogReadFailed returns an error when the line source fails mid-stream.
func errInternalLogReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogReadFailed, fmt.Errorf("logReadFailed: %w", cause))
}

// errInternalStatisticsFinalize returns an error when per-URL statistics cannot be finalized.
func errInternalStatisticsFinalize(url string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalStatisticsFinalize, fmt.Errorf("statisticsFinalize %q: %w", url, cause))
}
