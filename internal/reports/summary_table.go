package reports

import (
	"fmt"
	"io"

	"log-analyzer/internal/models"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary prints the first n rows of a report as a plain text table.
func WriteSummary(w io.Writer, rows []*models.ReportRow, n int) {
	if n < len(rows) {
		rows = rows[:n]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"URL", "Count", "Count %", "Time Sum", "Time %", "Avg", "Med", "Max"})
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append([]string{
			row.URL,
			fmt.Sprintf("%d", row.Count),
			row.CountPerc,
			fmt.Sprintf("%.3f", float64(row.TimeSum)),
			row.TimePerc,
			row.TimeAvg,
			row.TimeMed,
			row.TimeMax,
		})
	}
	table.Render()
}
