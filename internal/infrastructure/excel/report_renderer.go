// Package excel renderiza reportes tabulares como libros XLSX con excelize.
package excel

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

var _ ports.ReportRenderer = (*ExcelizeReportRenderer)(nil)

const (
	sheetName = "Reporte"
	// headerRows filas de título y metadatos antes de la cabecera de columnas.
	headerRows  = 3
	maxColWidth = 60
	minColWidth = 10
)

// ExcelizeReportRenderer implementa ports.ReportRenderer generando XLSX.
type ExcelizeReportRenderer struct{}

// NewExcelizeReportRenderer construye el renderizador.
func NewExcelizeReportRenderer() *ExcelizeReportRenderer { return &ExcelizeReportRenderer{} }

// Render genera el libro: título en A1, metadatos en A2, cabecera en la fila 4 y datos debajo.
// La cabecera queda congelada y con autofiltro.
func (r *ExcelizeReportRenderer) Render(_ context.Context, t *ports.ReportTable) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("excel: el reporte no tiene columnas")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, fmt.Errorf("excel: título: %w", err)
	}
	meta := fmt.Sprintf("%s · Generado %s por %s", t.Subtitle, t.GeneratedAt.Format("02/01/2006 15:04"), t.GeneratedBy)
	if err := f.SetCellValue(sheetName, "A2", meta); err != nil {
		return nil, fmt.Errorf("excel: metadatos: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	headerRow := headerRows + 1
	headerCell, _ := excelize.CoordinatesToCellName(1, headerRow)
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(t.Columns), headerRow)
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, headerCell, &header); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	if err := f.SetCellStyle(sheetName, headerCell, lastHeaderCell, headerStyle); err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for i, values := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
			if j < len(widths) && utf8.RuneCountInString(v) > widths[j] {
				widths[j] = utf8.RuneCountInString(v)
			}
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+1, err)
		}
	}

	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, clamp(float64(w+2))); err != nil {
			return nil, fmt.Errorf("excel: ancho de columna: %w", err)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(t.Columns), headerRow+len(t.Rows))
	if err := f.AutoFilter(sheetName, headerCell+":"+lastCell, nil); err != nil {
		return nil, fmt.Errorf("excel: autofiltro: %w", err)
	}
	firstData, _ := excelize.CoordinatesToCellName(1, headerRow+1)
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: headerRow, TopLeftCell: firstData, ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("excel: congelar cabecera: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(w float64) float64 {
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}
