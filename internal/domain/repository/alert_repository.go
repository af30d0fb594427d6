package repository

import (
	"context"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(ctx context.Context, a *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	Update(ctx context.Context, a *entity.Alert) error
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]*entity.Alert, int, error)
	Delete(ctx context.Context, id string) error
}

// ReportRepository define el puerto de persistencia para registros de reportes.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	Update(ctx context.Context, r *entity.Report) error
	// List devuelve los reportes de solicitanteID, o todos si está vacío.
	List(ctx context.Context, solicitanteID string, limit, offset int) ([]*entity.Report, int, error)
	Delete(ctx context.Context, id string) error
}
