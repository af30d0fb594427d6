package entity

import "time"

// SolicitudTipo tipo de solicitud. Enum canónico.
type SolicitudTipo string

const (
	SolicitudNuevoEquipo   SolicitudTipo = "nuevo_equipo"
	SolicitudMantenimiento SolicitudTipo = "mantenimiento"
	SolicitudReubicacion   SolicitudTipo = "reubicacion"
	SolicitudRetiro        SolicitudTipo = "retiro"
)

// Valid indica si t pertenece al enum.
func (t SolicitudTipo) Valid() bool {
	switch t {
	case SolicitudNuevoEquipo, SolicitudMantenimiento, SolicitudReubicacion, SolicitudRetiro:
		return true
	}
	return false
}

// SolicitudEstado estado del ciclo de vida de una solicitud.
type SolicitudEstado string

const (
	SolicitudPendiente  SolicitudEstado = "pendiente"
	SolicitudAprobada   SolicitudEstado = "aprobada"
	SolicitudRechazada  SolicitudEstado = "rechazada"
	SolicitudEnProceso  SolicitudEstado = "en_proceso"
	SolicitudCompletada SolicitudEstado = "completada"
)

// Valid indica si e pertenece al enum.
func (e SolicitudEstado) Valid() bool {
	switch e {
	case SolicitudPendiente, SolicitudAprobada, SolicitudRechazada, SolicitudEnProceso, SolicitudCompletada:
		return true
	}
	return false
}

// Solicitud es un pedido de un usuario sobre equipos, sujeto a aprobación del administrador.
type Solicitud struct {
	ID             string
	SolicitanteID  string
	EquipoID       *string // nil en solicitudes de equipo nuevo
	Tipo           SolicitudTipo
	Titulo         string
	Descripcion    string
	Estado         SolicitudEstado
	Respuesta      string
	ResolverID     *string
	FechaSolicitud time.Time
	FechaRespuesta *time.Time
	UpdatedAt      time.Time
}

// SolicitudDetail incluye solicitante, equipo y resolutor resueltos.
type SolicitudDetail struct {
	Solicitud
	Solicitante UserSummary
	Equipo      *EquipmentSummary
	Resolver    *UserSummary
}
