package repository

import (
	"time"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// UserFilter filtros opcionales del listado de usuarios.
type UserFilter struct {
	Role   *entity.Role
	Active *bool
	Search string
}

// EquipmentFilter filtros opcionales del listado de equipos. Search busca en código, nombre y serie.
type EquipmentFilter struct {
	TypeID         string
	StatusID       string
	LocationID     string
	AssignedUserID string
	Search         string
}

// SolicitudFilter filtros del listado de solicitudes. SolicitanteID lo fuerza el caso de uso
// para quien no es administrador.
type SolicitudFilter struct {
	SolicitanteID string
	EquipoID      string
	Estado        entity.SolicitudEstado
	Tipo          entity.SolicitudTipo
	Desde         *time.Time
	Hasta         *time.Time
}

// MaintenanceFilter filtros del listado de mantenimientos.
type MaintenanceFilter struct {
	EquipoID  string
	TecnicoID string
	Estado    entity.MantenimientoEstado
	Tipo      entity.MantenimientoTipo
	Desde     *time.Time
	Hasta     *time.Time
}

// MovementFilter filtros del listado de movimientos. UbicacionID coincide con origen o destino.
type MovementFilter struct {
	EquipoID      string
	ResponsableID string
	UbicacionID   string
	Desde         *time.Time
	Hasta         *time.Time
}

// AlertFilter filtros del listado de alertas. VisibleTo restringe a las alertas
// dirigidas a ese usuario o creadas por él.
type AlertFilter struct {
	VisibleTo string
	Estado    entity.AlertaEstado
	Prioridad entity.AlertaPrioridad
	Tipo      entity.AlertaTipo
	EquipoID  string
}
