package entity

import "time"

// Movement registro de traslado de un equipo entre dos ubicaciones.
type Movement struct {
	ID            string
	EquipoID      string
	ResponsableID string
	OrigenID      string
	DestinoID     string
	Motivo        string
	Observaciones string
	Fecha         time.Time
	UpdatedAt     time.Time
}

// MovementDetail incluye equipo, responsable y nombres de ubicaciones.
type MovementDetail struct {
	Movement
	Equipo        EquipmentSummary
	Responsable   UserSummary
	OrigenNombre  string
	DestinoNombre string
}
