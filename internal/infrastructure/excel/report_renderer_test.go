package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

func TestRender_EscribeCabeceraYFilas(t *testing.T) {
	table := &ports.ReportTable{
		Title:       "Inventario de equipos",
		Subtitle:    "Sin filtros",
		Columns:     []string{"Código", "Nombre", "Ubicación"},
		Rows:        [][]string{{"EQ-01", "Portátil Dell", "Bodega central"}, {"EQ-02", "Monitor", "Laboratorio 2"}},
		GeneratedAt: time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
		GeneratedBy: "Ana Técnica",
	}

	out, err := NewExcelizeReportRenderer().Render(context.Background(), table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Inventario de equipos", title)

	meta, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Contains(t, meta, "Ana Técnica")

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Código", "Nombre", "Ubicación"}, rows[3])
	assert.Equal(t, "EQ-02", rows[5][0])
	assert.Equal(t, "Laboratorio 2", rows[5][2])
}

func TestRender_SinColumnasFalla(t *testing.T) {
	_, err := NewExcelizeReportRenderer().Render(context.Background(), &ports.ReportTable{Title: "x"})
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float64(minColWidth), clamp(3))
	assert.Equal(t, float64(25), clamp(25))
	assert.Equal(t, float64(maxColWidth), clamp(200))
}
