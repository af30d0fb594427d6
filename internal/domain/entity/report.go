package entity

import "time"

// ReporteTipo proyección de datos que se exporta.
type ReporteTipo string

const (
	ReporteInventario     ReporteTipo = "inventario"
	ReporteMantenimientos ReporteTipo = "mantenimientos"
	ReporteMovimientos    ReporteTipo = "movimientos"
	ReporteSolicitudes    ReporteTipo = "solicitudes"
)

// Valid indica si t pertenece al enum.
func (t ReporteTipo) Valid() bool {
	switch t {
	case ReporteInventario, ReporteMantenimientos, ReporteMovimientos, ReporteSolicitudes:
		return true
	}
	return false
}

// ReporteFormato formato de salida.
type ReporteFormato string

const (
	FormatoPDF   ReporteFormato = "pdf"
	FormatoExcel ReporteFormato = "excel"
)

// Valid indica si f pertenece al enum.
func (f ReporteFormato) Valid() bool {
	return f == FormatoPDF || f == FormatoExcel
}

// Extension devuelve la extensión de archivo del formato.
func (f ReporteFormato) Extension() string {
	if f == FormatoExcel {
		return ".xlsx"
	}
	return ".pdf"
}

// ReporteEstado estado del trabajo de generación.
type ReporteEstado string

const (
	ReporteGenerando  ReporteEstado = "generando"
	ReporteCompletado ReporteEstado = "completado"
	ReporteError      ReporteEstado = "error"
	ReporteExpirado   ReporteEstado = "expirado"
)

// Report registro de un trabajo de generación de reporte.
type Report struct {
	ID            string
	SolicitanteID string
	Tipo          ReporteTipo
	Formato       ReporteFormato
	Parametros    map[string]string
	ArchivoPath   string
	Estado        ReporteEstado
	Error         string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}
