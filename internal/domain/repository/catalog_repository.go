package repository

import (
	"context"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// CatalogRepository persistencia de tipos de equipo, estados de equipo y ubicaciones.
// Las tres tablas tienen la misma forma; kind selecciona cuál.
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, kind entity.CatalogKind, id string) (*entity.CatalogItem, error)
	GetByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	List(ctx context.Context, kind entity.CatalogKind) ([]*entity.CatalogItem, error)
	Delete(ctx context.Context, kind entity.CatalogKind, id string) error
}
