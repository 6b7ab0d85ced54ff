package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"log-analyzer/internal/models"
)

// TableJSONPlaceholder marks where the report rows are injected into the template.
const TableJSONPlaceholder = "$table_json"

var ErrTemplatePlaceholderMissing = errors.New("report template has no " + TableJSONPlaceholder + " placeholder")

type ReportRenderer interface {
	// Render writes the template with every placeholder replaced by rows as a JSON array.
	Render(w io.Writer, rows []*models.ReportRow) error
}

type reportRenderer struct {
	template string
}

func NewReportRenderer(template string) (ReportRenderer, error) {
	if !strings.Contains(template, TableJSONPlaceholder) {
		return nil, ErrTemplatePlaceholderMissing
	}
	return &reportRenderer{template: template}, nil
}

func (r *reportRenderer) Render(w io.Writer, rows []*models.ReportRow) error {
	if rows == nil {
		rows = []*models.ReportRow{}
	}

	// encoding/json escapes <, > and &, so the array is safe inside a <script> block
	tableJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal report rows: %w", err)
	}

	report := strings.ReplaceAll(r.template, TableJSONPlaceholder, string(tableJSON))
	if _, err := io.WriteString(w, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
