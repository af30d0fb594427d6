package dto

import "time"

// CreateAlertRequest entrada para levantar una alerta manual.
type CreateAlertRequest struct {
	Tipo            string  `json:"tipo" validate:"omitempty,alerta_tipo"`
	Prioridad       string  `json:"prioridad" validate:"required,alerta_prioridad"`
	Mensaje         string  `json:"mensaje" validate:"required,max=1000"`
	EquipoID        *string `json:"equipo_id" validate:"omitempty,uuid"`
	SolicitudID     *string `json:"solicitud_id" validate:"omitempty,uuid"`
	MantenimientoID *string `json:"mantenimiento_id" validate:"omitempty,uuid"`
	DestinatarioID  *string `json:"destinatario_id" validate:"omitempty,uuid"`
}

// UpdateAlertRequest campos opcionales.
type UpdateAlertRequest struct {
	Tipo           *string `json:"tipo" validate:"omitempty,alerta_tipo"`
	Prioridad      *string `json:"prioridad" validate:"omitempty,alerta_prioridad"`
	Mensaje        *string `json:"mensaje" validate:"omitempty,min=1,max=1000"`
	Estado         *string `json:"estado" validate:"omitempty,alerta_estado"`
	DestinatarioID *string `json:"destinatario_id" validate:"omitempty,uuid"`
}

// AlertListQuery filtros de GET /alerts.
type AlertListQuery struct {
	Estado    string `query:"estado" validate:"omitempty,alerta_estado"`
	Prioridad string `query:"prioridad" validate:"omitempty,alerta_prioridad"`
	Tipo      string `query:"tipo" validate:"omitempty,alerta_tipo"`
	EquipoID  string `query:"equipo_id" validate:"omitempty,uuid"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID              string     `json:"id"`
	Tipo            string     `json:"tipo"`
	Prioridad       string     `json:"prioridad"`
	Mensaje         string     `json:"mensaje"`
	Estado          string     `json:"estado"`
	EquipoID        *string    `json:"equipo_id,omitempty"`
	SolicitudID     *string    `json:"solicitud_id,omitempty"`
	MantenimientoID *string    `json:"mantenimiento_id,omitempty"`
	DestinatarioID  *string    `json:"destinatario_id,omitempty"`
	OrigenID        string     `json:"origen_id"`
	FechaGeneracion time.Time  `json:"fecha_generacion"`
	FechaResolucion *time.Time `json:"fecha_resolucion,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
