package app

import (
	"log-analyzer/internal/shared/metrics"
)

const resultSuccess = "success"

var (
	// metricRunTotal counts runs by result: success or the category of the error that ended them.
	metricRunTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRun,
			Name:      "total",
		},
		[]string{metrics.FieldResult},
	)

	metricRunDuration = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRun,
			Name:      "duration_seconds",
			Help:      "Wall time of the last run.",
		},
	)

	metricReportRows = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "rows",
			Help:      "Number of URLs in the last written report.",
		},
	)
)
