package models

import "log-analyzer/internal/statistics"

// AggregateResult is the outcome of one complete pass over an access log.
// Every entry of Statistics is finalized and read-only.
type AggregateResult struct {
	Statistics       map[string]*statistics.Statistics
	TotalCount       int64   // entries accumulated into Statistics
	TotalRequestTime float64 // seconds, sum over all accumulated entries
	ParseErrorCount  int64
	LinesProcessed   int64
}
