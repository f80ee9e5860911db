package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a Dataset as CSV. The Title is not emitted; CSV
// consumers get the header row only.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, name := range data.Headers {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
