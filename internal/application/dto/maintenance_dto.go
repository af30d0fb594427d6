package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaintenanceRequest entrada para registrar un mantenimiento. Estado por defecto: programado.
type CreateMaintenanceRequest struct {
	EquipoID      string           `json:"equipo_id" validate:"required,uuid"`
	TecnicoID     *string          `json:"tecnico_id" validate:"omitempty,uuid"`
	Tipo          string           `json:"tipo" validate:"required,mantenimiento_tipo"`
	Descripcion   string           `json:"descripcion" validate:"required"`
	Fecha         *time.Time       `json:"fecha"`
	Costo         *decimal.Decimal `json:"costo"`
	Estado        string           `json:"estado" validate:"omitempty,mantenimiento_estado"`
	Observaciones string           `json:"observaciones"`
}

// UpdateMaintenanceRequest campos opcionales.
type UpdateMaintenanceRequest struct {
	Tipo          *string          `json:"tipo" validate:"omitempty,mantenimiento_tipo"`
	Descripcion   *string          `json:"descripcion" validate:"omitempty,min=1"`
	Fecha         *time.Time       `json:"fecha"`
	Costo         *decimal.Decimal `json:"costo"`
	Estado        *string          `json:"estado" validate:"omitempty,mantenimiento_estado"`
	Observaciones *string          `json:"observaciones"`
	TecnicoID     *string          `json:"tecnico_id" validate:"omitempty,uuid"`
}

// MaintenanceListQuery filtros de GET /maintenance.
type MaintenanceListQuery struct {
	EquipoID  string `query:"equipo_id" validate:"omitempty,uuid"`
	TecnicoID string `query:"tecnico_id" validate:"omitempty,uuid"`
	Estado    string `query:"estado" validate:"omitempty,mantenimiento_estado"`
	Tipo      string `query:"tipo" validate:"omitempty,mantenimiento_tipo"`
	Desde     string `query:"desde"`
	Hasta     string `query:"hasta"`
}

// MaintenanceResponse salida de un mantenimiento.
type MaintenanceResponse struct {
	ID            string                   `json:"id"`
	Tipo          string                   `json:"tipo"`
	Descripcion   string                   `json:"descripcion"`
	Fecha         time.Time                `json:"fecha"`
	Costo         decimal.Decimal          `json:"costo"`
	Estado        string                   `json:"estado"`
	Observaciones string                   `json:"observaciones,omitempty"`
	Equipo        EquipmentSummaryResponse `json:"equipo"`
	Tecnico       UserSummaryResponse      `json:"tecnico"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// MaintenanceStatsResponse agregados de GET /maintenance/stats.
type MaintenanceStatsResponse struct {
	Total           int             `json:"total"`
	PorEstado       map[string]int  `json:"por_estado"`
	CostoCompletado decimal.Decimal `json:"costo_completado"`
}
