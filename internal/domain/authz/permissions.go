// Package authz concentra la tabla de permisos rol → acción.
// Ningún otro paquete compara strings de rol: todo pasa por Can / Require.
package authz

import (
	"fmt"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// Action identifica una operación sujeta a autorización.
type Action string

// Acciones del sistema, agrupadas por recurso.
const (
	UsersManage Action = "users:manage"

	CatalogsWrite Action = "catalogs:write"

	EquipmentCreate Action = "equipment:create"
	EquipmentUpdate Action = "equipment:update"
	EquipmentDelete Action = "equipment:delete"

	SolicitudesCreate  Action = "solicitudes:create"
	SolicitudesViewAll Action = "solicitudes:view_all"
	SolicitudesEditAny Action = "solicitudes:edit_any"
	SolicitudesRespond Action = "solicitudes:respond"
	SolicitudesDelete  Action = "solicitudes:delete"

	AttachmentsUploadAny Action = "attachments:upload_any"
	AttachmentsDeleteAny Action = "attachments:delete_any"

	MaintenanceCreate    Action = "maintenance:create"
	MaintenanceUpdateAny Action = "maintenance:update_any"
	MaintenanceDelete    Action = "maintenance:delete"

	MovementsCreate    Action = "movements:create"
	MovementsUpdateAny Action = "movements:update_any"
	MovementsDelete    Action = "movements:delete"

	AlertsCreate    Action = "alerts:create"
	AlertsViewAll   Action = "alerts:view_all"
	AlertsUpdateAny Action = "alerts:update_any"
	AlertsDelete    Action = "alerts:delete"

	ReportsGenerate Action = "reports:generate"
	ReportsViewAll  Action = "reports:view_all"
	ReportsDelete   Action = "reports:delete"
)

var (
	adminOnly    = roles(entity.RoleAdministrador)
	adminAndTech = roles(entity.RoleAdministrador, entity.RoleTecnico)
	everyone     = roles(entity.RoleAdministrador, entity.RoleTecnico, entity.RoleUsuario)
)

// table es la única fuente de verdad de autorización por rol.
// Las reglas de propiedad (dueño, técnico asignado, autor) se resuelven en cada caso de uso
// y solo se consultan cuando el rol no alcanza por sí mismo.
var table = map[Action]map[entity.Role]bool{
	UsersManage: adminOnly,

	CatalogsWrite: adminOnly,

	EquipmentCreate: adminOnly,
	EquipmentUpdate: adminAndTech,
	EquipmentDelete: adminOnly,

	SolicitudesCreate:  everyone,
	SolicitudesViewAll: adminOnly,
	SolicitudesEditAny: adminOnly,
	SolicitudesRespond: adminOnly,
	SolicitudesDelete:  adminOnly,

	AttachmentsUploadAny: adminAndTech,
	AttachmentsDeleteAny: adminOnly,

	MaintenanceCreate:    adminAndTech,
	MaintenanceUpdateAny: adminOnly,
	MaintenanceDelete:    adminOnly,

	MovementsCreate:    adminAndTech,
	MovementsUpdateAny: adminOnly,
	MovementsDelete:    adminOnly,

	AlertsCreate:    adminAndTech,
	AlertsViewAll:   adminOnly,
	AlertsUpdateAny: adminOnly,
	AlertsDelete:    adminOnly,

	ReportsGenerate: adminAndTech,
	ReportsViewAll:  adminOnly,
	ReportsDelete:   adminOnly,
}

func roles(rs ...entity.Role) map[entity.Role]bool {
	m := make(map[entity.Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

// Can informa si el rol puede ejecutar la acción. Acciones desconocidas se deniegan.
func Can(role entity.Role, action Action) bool {
	return table[action][role]
}

// Actor identidad del que llama, ya autenticada por la capa HTTP.
type Actor struct {
	ID   string
	Role entity.Role
}

// IsAdmin atajo para el rol administrador.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdministrador }

// Can delega en la tabla con el rol del actor.
func (a Actor) Can(action Action) bool { return Can(a.Role, action) }

// Require devuelve domain.ErrForbidden si el actor no tiene permiso para la acción.
func Require(a Actor, action Action) error {
	if !Can(a.Role, action) {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, action)
	}
	return nil
}

// RequireOwnerOr permite la operación si el actor es dueño del recurso o su rol tiene la acción.
func RequireOwnerOr(a Actor, ownerID string, action Action) error {
	if ownerID != "" && a.ID == ownerID {
		return nil
	}
	return Require(a, action)
}
