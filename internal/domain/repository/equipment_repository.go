package repository

import (
	"context"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// EquipmentRepository define el puerto de persistencia para Equipment.
type EquipmentRepository interface {
	Create(ctx context.Context, eq *entity.Equipment) error
	GetByID(ctx context.Context, id string) (*entity.Equipment, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Equipment, error)
	GetDetail(ctx context.Context, id string) (*entity.EquipmentDetail, error)
	GetByInventoryCode(ctx context.Context, code string) (*entity.Equipment, error)
	GetBySerialNumber(ctx context.Context, serial string) (*entity.Equipment, error)
	Update(ctx context.Context, eq *entity.Equipment) error
	UpdateStatus(ctx context.Context, id, statusID string) error
	UpdateLocation(ctx context.Context, id, locationID string) error
	List(ctx context.Context, filter EquipmentFilter, limit, offset int) ([]*entity.EquipmentDetail, int, error)
	Delete(ctx context.Context, id string) error
	// CountByCatalog cuenta equipos que referencian la fila de catálogo indicada.
	CountByCatalog(ctx context.Context, kind entity.CatalogKind, id string) (int, error)
}
