package lifecycle

import "github.com/jhoicas/tesa-inventario/internal/domain/entity"

// maintenanceEquipmentStatus estado de equipo (por nombre) que impone entrar a cada estado de mantenimiento.
// programado no tiene efecto.
var maintenanceEquipmentStatus = map[entity.MantenimientoEstado]string{
	entity.MantenimientoEnProceso:  entity.EquipmentStatusEnMantenimiento,
	entity.MantenimientoCompletado: entity.EquipmentStatusActivo,
	entity.MantenimientoCancelado:  entity.EquipmentStatusActivo,
}

// EquipmentStatusFor devuelve el estado de equipo a aplicar al pasar de prev a next.
// Para una creación prev es "". Sin cambio de estado no hay efecto.
func EquipmentStatusFor(prev, next entity.MantenimientoEstado) (string, bool) {
	if prev == next {
		return "", false
	}
	name, ok := maintenanceEquipmentStatus[next]
	return name, ok
}

// LocationAfterMovementUpdate devuelve la nueva ubicación del equipo si el destino cambió.
func LocationAfterMovementUpdate(prev, next *entity.Movement) (string, bool) {
	if prev.DestinoID == next.DestinoID {
		return "", false
	}
	return next.DestinoID, true
}

// LocationAfterMovementDelete devuelve la ubicación a restaurar al borrar un movimiento:
// el origen, solo si el equipo sigue en el destino de ese movimiento.
func LocationAfterMovementDelete(m *entity.Movement, currentLocationID string) (string, bool) {
	if currentLocationID != m.DestinoID {
		return "", false
	}
	return m.OrigenID, true
}
