package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Title:   "Grade Overview",
		Headers: []string{"Subject", "Final Grade"},
		Rows: []map[string]string{
			{"Subject": "Algebra", "Final Grade": "6.80"},
			{"Subject": "Physics"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Subject,Final Grade\nAlgebra,6.80\nPhysics,\n", string(payload))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()

	payload, err := exporter.Render(Dataset{
		Title:   "Grade Overview",
		Headers: []string{"Subject", "Final Grade"},
		Rows: []map[string]string{
			{"Subject": "Algebra", "Final Grade": "6.80"},
		},
	})
	require.NoError(t, err)
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
