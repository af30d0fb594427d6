package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment es un activo físico inventariado. InventoryCode y SerialNumber son únicos globalmente.
// StatusID y LocationID los mutan también los hooks de mantenimiento y movimientos.
type Equipment struct {
	ID              string
	InventoryCode   string
	Name            string
	Brand           string
	Model           string
	SerialNumber    string
	AcquisitionDate *time.Time
	AcquisitionCost decimal.Decimal
	TypeID          string
	StatusID        string
	LocationID      string
	AssignedUserID  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EquipmentDetail es Equipment con los nombres de sus referencias ya resueltos.
type EquipmentDetail struct {
	Equipment
	TypeName     string
	StatusName   string
	LocationName string
	AssignedUser *UserSummary
}

// EquipmentSummary es la proyección de equipo que se incluye en otras respuestas.
type EquipmentSummary struct {
	ID            string
	InventoryCode string
	Name          string
}
