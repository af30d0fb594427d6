package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEquipmentRequest entrada para registrar un equipo.
type CreateEquipmentRequest struct {
	InventoryCode   string           `json:"codigo_inventario" validate:"required,max=50"`
	Name            string           `json:"nombre" validate:"required,max=200"`
	Brand           string           `json:"marca" validate:"max=100"`
	Model           string           `json:"modelo" validate:"max=100"`
	SerialNumber    string           `json:"numero_serie" validate:"required,max=100"`
	AcquisitionDate *time.Time       `json:"fecha_adquisicion"`
	AcquisitionCost *decimal.Decimal `json:"costo_adquisicion"`
	TypeID          string           `json:"tipo_id" validate:"required,uuid"`
	StatusID        string           `json:"estado_id" validate:"required,uuid"`
	LocationID      string           `json:"ubicacion_id" validate:"required,uuid"`
	AssignedUserID  *string          `json:"usuario_asignado_id" validate:"omitempty,uuid"`
}

// UpdateEquipmentRequest campos opcionales. usuario_asignado_id vacío desasigna.
type UpdateEquipmentRequest struct {
	InventoryCode   *string          `json:"codigo_inventario" validate:"omitempty,max=50"`
	Name            *string          `json:"nombre" validate:"omitempty,max=200"`
	Brand           *string          `json:"marca" validate:"omitempty,max=100"`
	Model           *string          `json:"modelo" validate:"omitempty,max=100"`
	SerialNumber    *string          `json:"numero_serie" validate:"omitempty,max=100"`
	AcquisitionDate *time.Time       `json:"fecha_adquisicion"`
	AcquisitionCost *decimal.Decimal `json:"costo_adquisicion"`
	TypeID          *string          `json:"tipo_id" validate:"omitempty,uuid"`
	StatusID        *string          `json:"estado_id" validate:"omitempty,uuid"`
	LocationID      *string          `json:"ubicacion_id" validate:"omitempty,uuid"`
	AssignedUserID  *string          `json:"usuario_asignado_id" validate:"omitempty,uuid|len=0"`
}

// EquipmentListQuery filtros de GET /equipment.
type EquipmentListQuery struct {
	TypeID         string `query:"tipo_id" validate:"omitempty,uuid"`
	StatusID       string `query:"estado_id" validate:"omitempty,uuid"`
	LocationID     string `query:"ubicacion_id" validate:"omitempty,uuid"`
	AssignedUserID string `query:"usuario_asignado_id" validate:"omitempty,uuid"`
	Search         string `query:"search"`
}

// EquipmentResponse salida de un equipo con nombres de catálogo resueltos.
type EquipmentResponse struct {
	ID              string               `json:"id"`
	InventoryCode   string               `json:"codigo_inventario"`
	Name            string               `json:"nombre"`
	Brand           string               `json:"marca,omitempty"`
	Model           string               `json:"modelo,omitempty"`
	SerialNumber    string               `json:"numero_serie"`
	AcquisitionDate *time.Time           `json:"fecha_adquisicion,omitempty"`
	AcquisitionCost decimal.Decimal      `json:"costo_adquisicion"`
	TypeID          string               `json:"tipo_id"`
	TypeName        string               `json:"tipo"`
	StatusID        string               `json:"estado_id"`
	StatusName      string               `json:"estado"`
	LocationID      string               `json:"ubicacion_id"`
	LocationName    string               `json:"ubicacion"`
	AssignedUser    *UserSummaryResponse `json:"usuario_asignado,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
