package reports

import (
	"bytes"
	"testing"

	"log-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	rows := []*models.ReportRow{
		{Count: 3, URL: "/slowest", TimeSum: 12.3456, TimeAvg: "4.115", TimeMed: "4.000", TimeMax: "5.000", TimePerc: "80.00", CountPerc: "60.00"},
		{Count: 1, URL: "/middle", TimeSum: 2, TimeAvg: "2.000", TimeMed: "2.000", TimeMax: "2.000", TimePerc: "13.00", CountPerc: "20.00"},
		{Count: 1, URL: "/fastest", TimeSum: 1, TimeAvg: "1.000", TimeMed: "1.000", TimeMax: "1.000", TimePerc: "7.00", CountPerc: "20.00"},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, rows, 2)

	out := buf.String()
	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "/slowest")
	assert.Contains(t, out, "12.346")
	assert.Contains(t, out, "/middle")
	assert.NotContains(t, out, "/fastest")
}

func TestWriteSummary_MoreRowsRequestedThanAvailable(t *testing.T) {
	t.Parallel()

	rows := []*models.ReportRow{{Count: 1, URL: "/only", TimeSum: 0.5}}

	var buf bytes.Buffer
	WriteSummary(&buf, rows, 10)

	assert.Contains(t, buf.String(), "/only")
}
