package dto

import "time"

// CreateMovementRequest entrada para registrar un traslado. El responsable es quien llama.
type CreateMovementRequest struct {
	EquipoID      string `json:"equipo_id" validate:"required,uuid"`
	OrigenID      string `json:"ubicacion_origen_id" validate:"required,uuid"`
	DestinoID     string `json:"ubicacion_destino_id" validate:"required,uuid"`
	Motivo        string `json:"motivo" validate:"required,max=255"`
	Observaciones string `json:"observaciones"`
}

// UpdateMovementRequest campos opcionales.
type UpdateMovementRequest struct {
	OrigenID      *string `json:"ubicacion_origen_id" validate:"omitempty,uuid"`
	DestinoID     *string `json:"ubicacion_destino_id" validate:"omitempty,uuid"`
	Motivo        *string `json:"motivo" validate:"omitempty,min=1,max=255"`
	Observaciones *string `json:"observaciones"`
}

// MovementListQuery filtros de GET /movements. ubicacion_id coincide con origen o destino.
type MovementListQuery struct {
	EquipoID      string `query:"equipo_id" validate:"omitempty,uuid"`
	ResponsableID string `query:"responsable_id" validate:"omitempty,uuid"`
	UbicacionID   string `query:"ubicacion_id" validate:"omitempty,uuid"`
	Desde         string `query:"desde"`
	Hasta         string `query:"hasta"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string                   `json:"id"`
	Equipo        EquipmentSummaryResponse `json:"equipo"`
	Responsable   UserSummaryResponse      `json:"responsable"`
	OrigenID      string                   `json:"ubicacion_origen_id"`
	OrigenNombre  string                   `json:"ubicacion_origen"`
	DestinoID     string                   `json:"ubicacion_destino_id"`
	DestinoNombre string                   `json:"ubicacion_destino"`
	Motivo        string                   `json:"motivo"`
	Observaciones string                   `json:"observaciones,omitempty"`
	Fecha         time.Time                `json:"fecha"`
	UpdatedAt     time.Time                `json:"updated_at"`
}
