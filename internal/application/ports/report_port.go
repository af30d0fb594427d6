package ports

import (
	"context"
	"time"
)

// ReportTable proyección de solo lectura que consumen los renderizadores de reportes.
type ReportTable struct {
	Title       string
	Subtitle    string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
	GeneratedBy string
}

// ReportRenderer convierte una proyección en un documento (PDF, XLSX).
type ReportRenderer interface {
	Render(ctx context.Context, table *ReportTable) ([]byte, error)
}
