package entity

import "time"

// AlertaTipo categoría de la alerta.
type AlertaTipo string

const (
	AlertaMantenimiento AlertaTipo = "mantenimiento"
	AlertaGarantia      AlertaTipo = "garantia"
	AlertaFalla         AlertaTipo = "falla"
	AlertaSolicitud     AlertaTipo = "solicitud"
	AlertaGeneral       AlertaTipo = "general"
)

// Valid indica si t pertenece al enum.
func (t AlertaTipo) Valid() bool {
	switch t {
	case AlertaMantenimiento, AlertaGarantia, AlertaFalla, AlertaSolicitud, AlertaGeneral:
		return true
	}
	return false
}

// AlertaPrioridad prioridad de la alerta.
type AlertaPrioridad string

const (
	PrioridadBaja    AlertaPrioridad = "baja"
	PrioridadMedia   AlertaPrioridad = "media"
	PrioridadAlta    AlertaPrioridad = "alta"
	PrioridadCritica AlertaPrioridad = "critica"
)

// Valid indica si p pertenece al enum.
func (p AlertaPrioridad) Valid() bool {
	switch p {
	case PrioridadBaja, PrioridadMedia, PrioridadAlta, PrioridadCritica:
		return true
	}
	return false
}

// AlertaEstado estado de la alerta.
type AlertaEstado string

const (
	AlertaActiva     AlertaEstado = "activa"
	AlertaLeida      AlertaEstado = "leida"
	AlertaResuelta   AlertaEstado = "resuelta"
	AlertaDescartada AlertaEstado = "descartada"
)

// Valid indica si e pertenece al enum.
func (e AlertaEstado) Valid() bool {
	switch e {
	case AlertaActiva, AlertaLeida, AlertaResuelta, AlertaDescartada:
		return true
	}
	return false
}

// Alert bandera levantada por un operador sobre un equipo, solicitud o mantenimiento.
type Alert struct {
	ID              string
	Tipo            AlertaTipo
	Prioridad       AlertaPrioridad
	Mensaje         string
	EquipoID        *string
	SolicitudID     *string
	MantenimientoID *string
	DestinatarioID  *string
	OrigenID        string
	Estado          AlertaEstado
	FechaGeneracion time.Time
	FechaResolucion *time.Time
	UpdatedAt       time.Time
}
