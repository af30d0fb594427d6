package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// catalogTables tabla de cada catálogo. Las tres comparten columnas.
var catalogTables = map[entity.CatalogKind]string{
	entity.CatalogEquipmentType:   "tipos_equipo",
	entity.CatalogEquipmentStatus: "estados_equipo",
	entity.CatalogLocation:        "ubicaciones",
}

// CatalogRepo tipos, estados y ubicaciones de equipo.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Acepta pool o tx.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func catalogTable(kind entity.CatalogKind) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: catálogo %q", domain.ErrInvalidInput, kind)
	}
	return t, nil
}

func scanCatalog(kind entity.CatalogKind) func(pgx.Row) (*entity.CatalogItem, error) {
	return func(row pgx.Row) (*entity.CatalogItem, error) {
		item := entity.CatalogItem{Kind: kind}
		if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		return &item, nil
	}
}

func (r *CatalogRepo) selectFrom(kind entity.CatalogKind) (sq.SelectBuilder, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return sq.SelectBuilder{}, err
	}
	return psql.Select("id", "nombre", "descripcion", "created_at", "updated_at").From(table), nil
}

// Create inserta una fila. Nombre repetido (sin distinguir mayúsculas) -> ErrDuplicate.
func (r *CatalogRepo) Create(ctx context.Context, item *entity.CatalogItem) error {
	table, err := catalogTable(item.Kind)
	if err != nil {
		return err
	}
	_, err = execBuilder(ctx, r.q, psql.Insert(table).
		Columns("id", "nombre", "descripcion", "created_at", "updated_at").
		Values(item.ID, item.Name, item.Description, item.CreatedAt, item.UpdatedAt))
	if err != nil {
		return writeErr(err, string(item.Kind))
	}
	return nil
}

// GetByID obtiene una fila por ID.
func (r *CatalogRepo) GetByID(ctx context.Context, kind entity.CatalogKind, id string) (*entity.CatalogItem, error) {
	b, err := r.selectFrom(kind)
	if err != nil {
		return nil, err
	}
	return queryOne(ctx, r.q, b.Where(sq.Eq{"id": id}), scanCatalog(kind))
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *CatalogRepo) GetByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.CatalogItem, error) {
	b, err := r.selectFrom(kind)
	if err != nil {
		return nil, err
	}
	return queryOne(ctx, r.q, b.Where("lower(nombre) = lower(?)", name), scanCatalog(kind))
}

// Update actualiza nombre y descripción.
func (r *CatalogRepo) Update(ctx context.Context, item *entity.CatalogItem) error {
	table, err := catalogTable(item.Kind)
	if err != nil {
		return err
	}
	cmd, err := execBuilder(ctx, r.q, psql.Update(table).
		Set("nombre", item.Name).
		Set("descripcion", item.Description).
		Set("updated_at", item.UpdatedAt).
		Where(sq.Eq{"id": item.ID}))
	if err != nil {
		return writeErr(err, string(item.Kind))
	}
	return affected(cmd, string(item.Kind), item.ID)
}

// List devuelve todas las filas ordenadas por nombre.
func (r *CatalogRepo) List(ctx context.Context, kind entity.CatalogKind) ([]*entity.CatalogItem, error) {
	b, err := r.selectFrom(kind)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, r.q, b.OrderBy("nombre ASC"), scanCatalog(kind))
}

// Delete borra la fila. Si un equipo la referencia la FK lo impide -> ErrConflict.
func (r *CatalogRepo) Delete(ctx context.Context, kind entity.CatalogKind, id string) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	cmd, err := execBuilder(ctx, r.q, psql.Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, string(kind))
	}
	return affected(cmd, string(kind), id)
}
