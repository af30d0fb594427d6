package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MantenimientoTipo tipo de servicio.
type MantenimientoTipo string

const (
	MantenimientoPreventivo  MantenimientoTipo = "preventivo"
	MantenimientoCorrectivo  MantenimientoTipo = "correctivo"
	MantenimientoPredictivo  MantenimientoTipo = "predictivo"
	MantenimientoCalibracion MantenimientoTipo = "calibracion"
)

// Valid indica si t pertenece al enum.
func (t MantenimientoTipo) Valid() bool {
	switch t {
	case MantenimientoPreventivo, MantenimientoCorrectivo, MantenimientoPredictivo, MantenimientoCalibracion:
		return true
	}
	return false
}

// MantenimientoEstado estado de un mantenimiento.
type MantenimientoEstado string

const (
	MantenimientoProgramado MantenimientoEstado = "programado"
	MantenimientoEnProceso  MantenimientoEstado = "en_proceso"
	MantenimientoCompletado MantenimientoEstado = "completado"
	MantenimientoCancelado  MantenimientoEstado = "cancelado"
)

// MantenimientoEstados todos los estados, en orden de ciclo de vida.
var MantenimientoEstados = []MantenimientoEstado{
	MantenimientoProgramado, MantenimientoEnProceso, MantenimientoCompletado, MantenimientoCancelado,
}

// Valid indica si e pertenece al enum.
func (e MantenimientoEstado) Valid() bool {
	switch e {
	case MantenimientoProgramado, MantenimientoEnProceso, MantenimientoCompletado, MantenimientoCancelado:
		return true
	}
	return false
}

// Maintenance evento de servicio sobre un equipo.
type Maintenance struct {
	ID            string
	EquipoID      string
	TecnicoID     string
	Tipo          MantenimientoTipo
	Descripcion   string
	Fecha         time.Time
	Costo         decimal.Decimal
	Estado        MantenimientoEstado
	Observaciones string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MaintenanceDetail incluye equipo y técnico resueltos.
type MaintenanceDetail struct {
	Maintenance
	Equipo  EquipmentSummary
	Tecnico UserSummary
}

// MaintenanceStats agregados de mantenimientos al momento de la consulta.
type MaintenanceStats struct {
	Total           int
	PorEstado       map[MantenimientoEstado]int
	CostoCompletado decimal.Decimal
}
