package reports

import (
	"sort"
	"strconv"

	"log-analyzer/internal/models"
)

const DefaultReportSize = 1000

type ReportBuilder interface {
	// Build ranks the URLs of result by total request time, slowest first,
	// and keeps at most the configured number of rows.
	Build(result *models.AggregateResult) []*models.ReportRow
}

type reportBuilder struct {
	reportSize int
}

func NewReportBuilder(reportSize int) ReportBuilder {
	if reportSize <= 0 {
		reportSize = DefaultReportSize
	}
	return &reportBuilder{reportSize: reportSize}
}

func (b *reportBuilder) Build(result *models.AggregateResult) []*models.ReportRow {
	rows := make([]*models.ReportRow, 0, len(result.Statistics))
	for url, stats := range result.Statistics {
		rows = append(rows, &models.ReportRow{
			Count:     int64(stats.Count()),
			TimeAvg:   formatSeconds(stats.Average()),
			TimeMax:   formatSeconds(stats.Maximum()),
			TimeSum:   models.FixedPoint3(stats.Total()),
			URL:       url,
			TimeMed:   formatSeconds(stats.Median()),
			TimePerc:  formatPercent(percent(stats.Total(), result.TotalRequestTime)),
			CountPerc: formatPercent(percent(float64(stats.Count()), float64(result.TotalCount))),
		})
	}

	// Ranked on the exact sums; rounding to 3 places happens only on serialization.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TimeSum != rows[j].TimeSum {
			return rows[i].TimeSum > rows[j].TimeSum
		}
		return rows[i].URL < rows[j].URL
	})

	if len(rows) > b.reportSize {
		rows = rows[:b.reportSize]
	}
	return rows
}

// percent returns 100*part/total, or 0 when nothing was accumulated.
func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
