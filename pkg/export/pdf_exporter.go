package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Dataset as a one-page-per-overflow A4 table with
// the Title centred above it. Columns share the width evenly.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 15, 10)
	doc.AddPage()

	if data.Title != "" {
		doc.SetFont("Arial", "B", 14)
		doc.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		doc.Ln(5)
	}

	width := 190.0 / float64(len(data.Headers))

	doc.SetFont("Arial", "B", 10)
	for _, name := range data.Headers {
		doc.CellFormat(width, 8, name, "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, name := range data.Headers {
			doc.CellFormat(width, 7, row[name], "1", 0, "", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
