package repository

import (
	"context"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// MaintenanceRepository define el puerto de persistencia para mantenimientos.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *entity.Maintenance) error
	GetByID(ctx context.Context, id string) (*entity.Maintenance, error)
	GetDetail(ctx context.Context, id string) (*entity.MaintenanceDetail, error)
	Update(ctx context.Context, m *entity.Maintenance) error
	List(ctx context.Context, filter MaintenanceFilter, limit, offset int) ([]*entity.MaintenanceDetail, int, error)
	Delete(ctx context.Context, id string) error
	// Stats agrega conteos por estado y el costo de los completados. Sin aislamiento de snapshot.
	Stats(ctx context.Context) (*entity.MaintenanceStats, error)
}

// MovementRepository define el puerto de persistencia para movimientos.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetDetail(ctx context.Context, id string) (*entity.MovementDetail, error)
	Update(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.MovementDetail, int, error)
	Delete(ctx context.Context, id string) error
}
