package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

func TestRender_GeneraPDF(t *testing.T) {
	table := &ports.ReportTable{
		Title:       "Mantenimientos",
		Columns:     []string{"Equipo", "Tipo", "Estado", "Costo"},
		Rows:        [][]string{{"EQ-01", "preventivo", "completado", "120000.00"}, {"EQ-02", "correctivo", "en_proceso", ""}},
		GeneratedAt: time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
		GeneratedBy: "Admin",
	}

	out, err := NewMarotoReportRenderer("TESA").Render(context.Background(), table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe iniciar con la firma PDF")
}

func TestRender_SinFilasIgualGenera(t *testing.T) {
	table := &ports.ReportTable{Title: "Vacío", Columns: []string{"A"}, GeneratedAt: time.Now()}

	out, err := NewMarotoReportRenderer("TESA").Render(context.Background(), table)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRender_SinColumnasFalla(t *testing.T) {
	_, err := NewMarotoReportRenderer("TESA").Render(context.Background(), &ports.ReportTable{Title: "x"})
	assert.Error(t, err)
}
