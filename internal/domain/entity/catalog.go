package entity

import "time"

// CatalogKind identifica una de las tablas de consulta referenciadas por Equipment.
type CatalogKind string

const (
	CatalogEquipmentType   CatalogKind = "tipo_equipo"
	CatalogEquipmentStatus CatalogKind = "estado_equipo"
	CatalogLocation        CatalogKind = "ubicacion"
)

// Nombres de estado que usan los hooks de mantenimiento. Los siembra la migración inicial.
const (
	EquipmentStatusActivo          = "Activo"
	EquipmentStatusEnMantenimiento = "En Mantenimiento"
)

// CatalogItem es una fila de tipo de equipo, estado de equipo o ubicación:
// nombre único y descripción opcional.
type CatalogItem struct {
	ID          string
	Kind        CatalogKind
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
