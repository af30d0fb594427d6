// Package pdf renderiza reportes tabulares como PDF A4 apaisado con maroto.
//
// Layout:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  TESA: título del reporte       │  Fecha de generación   │
//	│  subtítulo (filtros)            │  Generado por          │
//	│  ──────────────────────────────────────────────────────  │
//	│  cabecera de columnas (fondo azul)                       │
//	│  filas alternando fondo                                  │
//	│  ──────────────────────────────────────────────────────  │
//	│  Total de registros                                      │
//	└──────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

var _ ports.ReportRenderer = (*MarotoReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
)

// MarotoReportRenderer implementa ports.ReportRenderer con Maroto v2.
type MarotoReportRenderer struct {
	author string
}

// NewMarotoReportRenderer construye el renderizador. author va en los metadatos del PDF.
func NewMarotoReportRenderer(author string) *MarotoReportRenderer {
	return &MarotoReportRenderer{author: author}
}

// Render genera el PDF y devuelve sus bytes. La grilla tiene una columna por campo del reporte.
func (g *MarotoReportRenderer) Render(_ context.Context, t *ports.ReportTable) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf: el reporte no tiene columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(len(t.Columns)).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)
	grid := len(t.Columns)

	m.AddRows(headerRow(t, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(columnsRow(t.Columns))
	m.AddRows(dataRows(t.Rows, len(t.Columns))...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(grid).Add(text.New(
		fmt.Sprintf("Total de registros: %d", len(t.Rows)),
		props.Text{Style: fontstyle.Bold, Size: 8, Top: 2},
	))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título y filtros a la izquierda, fecha y autor a la derecha.
func headerRow(t *ports.ReportTable, grid int) core.Row {
	right := grid / 3
	if right < 1 {
		right = 1
	}
	left := grid - right
	if left < 1 {
		left, right = grid, 0
	}
	r := row.New(18).Add(
		col.New(left).Add(
			text.New("TESA · "+t.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(t.Subtitle, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
	if right > 0 {
		r.Add(col.New(right).Add(
			text.New("Generado: "+t.GeneratedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New("Por: "+nonEmpty(t.GeneratedBy, "-"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		))
	}
	return r
}

// columnsRow: cabecera de la tabla con fondo azul.
func columnsRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(1).Add(text.New(c, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// dataRows: una fila por registro, con franjas alternas.
func dataRows(rows [][]string, width int) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for i, values := range rows {
		cols := make([]core.Col, 0, width)
		for j := 0; j < width; j++ {
			v := ""
			if j < len(values) {
				v = values[j]
			}
			cols = append(cols, col.New(1).Add(text.New(v, props.Text{Size: 7, Top: 1, Left: 1, Right: 1})))
		}
		r := row.New(7).Add(cols...)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, r)
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
