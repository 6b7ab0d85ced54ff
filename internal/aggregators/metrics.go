package aggregators

import (
	"log-analyzer/internal/shared/metrics"
)

const (
	outcomeOK        = "ok"
	outcomeSoftError = "soft_error"
	outcomeHardError = "hard_error"
	outcomeRejected  = "rejected"
)

// metricLinesTotal counts access log lines by how the aggregator handled them:
//   - ok: parsed and accumulated into the URL statistics
//   - soft_error: skipped, no HTTP method or no URL terminator
//   - hard_error: malformed request time, or a line that could not be read or decoded
//   - rejected: parsed, but the entry failed validation
//
// Every outcome except ok counts toward the parse error circuit breaker.
var (
	metricLinesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "lines_total",
		},
		[]string{metrics.FieldOutcome},
	)

	metricLinesOK        = metricLinesTotal.WithLabelValues(outcomeOK)
	metricLinesSoftError = metricLinesTotal.WithLabelValues(outcomeSoftError)
	metricLinesHardError = metricLinesTotal.WithLabelValues(outcomeHardError)
	metricLinesRejected  = metricLinesTotal.WithLabelValues(outcomeRejected)
)
