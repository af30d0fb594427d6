package dto

import "time"

// GenerateReportRequest entrada de POST /reports. filtros se pasa al proyector del tipo.
type GenerateReportRequest struct {
	Tipo    string            `json:"tipo" validate:"required,reporte_tipo"`
	Formato string            `json:"formato" validate:"required,reporte_formato"`
	Filtros map[string]string `json:"filtros"`
}

// ReportResponse salida de un registro de reporte.
type ReportResponse struct {
	ID          string            `json:"id"`
	Tipo        string            `json:"tipo"`
	Formato     string            `json:"formato"`
	Estado      string            `json:"estado"`
	Error       string            `json:"error,omitempty"`
	Parametros  map[string]string `json:"parametros,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}
