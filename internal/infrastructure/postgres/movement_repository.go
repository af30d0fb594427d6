package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"mv.id", "mv.equipo_id", "mv.responsable_id", "mv.ubicacion_origen_id", "mv.ubicacion_destino_id",
	"mv.motivo", "mv.observaciones", "mv.fecha", "mv.updated_at",
}

var movementDetailColumns = append(append([]string{}, movementColumns...),
	"e.codigo_inventario", "e.nombre", "u.nombre", "u.email", "lo.nombre", "ld.nombre",
)

// MovementRepo libro de movimientos sobre PostgreSQL (pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func movementDest(m *entity.Movement) []any {
	return []any{
		&m.ID, &m.EquipoID, &m.ResponsableID, &m.OrigenID, &m.DestinoID,
		&m.Motivo, &m.Observaciones, &m.Fecha, &m.UpdatedAt,
	}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	if err := row.Scan(movementDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movimiento: %w", err)
	}
	return &m, nil
}

func scanMovementDetail(row pgx.Row) (*entity.MovementDetail, error) {
	var d entity.MovementDetail
	dest := append(movementDest(&d.Movement),
		&d.Equipo.InventoryCode, &d.Equipo.Name, &d.Responsable.Name, &d.Responsable.Email,
		&d.OrigenNombre, &d.DestinoNombre,
	)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movimiento: %w", err)
	}
	d.Equipo.ID = d.EquipoID
	d.Responsable.ID = d.ResponsableID
	return &d, nil
}

func movementDetailSelect() sq.SelectBuilder {
	return psql.Select(movementDetailColumns...).
		From("movimientos mv").
		Join("equipos e ON e.id = mv.equipo_id").
		Join("users u ON u.id = mv.responsable_id").
		Join("ubicaciones lo ON lo.id = mv.ubicacion_origen_id").
		Join("ubicaciones ld ON ld.id = mv.ubicacion_destino_id")
}

// Create persiste un movimiento. La ubicación del equipo la actualiza el caso de uso en la misma tx.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("movimientos").Columns(
		"id", "equipo_id", "responsable_id", "ubicacion_origen_id", "ubicacion_destino_id",
		"motivo", "observaciones", "fecha", "updated_at",
	).Values(
		m.ID, m.EquipoID, m.ResponsableID, m.OrigenID, m.DestinoID,
		m.Motivo, m.Observaciones, m.Fecha, m.UpdatedAt,
	))
	if err != nil {
		return writeErr(err, "movimiento")
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return queryOne(ctx, r.q, psql.Select(movementColumns...).From("movimientos mv").Where(sq.Eq{"mv.id": id}), scanMovement)
}

// GetDetail obtiene el movimiento con equipo, responsable y nombres de ubicación.
func (r *MovementRepo) GetDetail(ctx context.Context, id string) (*entity.MovementDetail, error) {
	return queryOne(ctx, r.q, movementDetailSelect().Where(sq.Eq{"mv.id": id}), scanMovementDetail)
}

// Update reescribe origen, destino, motivo y observaciones.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("movimientos").SetMap(map[string]any{
		"ubicacion_origen_id":  m.OrigenID,
		"ubicacion_destino_id": m.DestinoID,
		"motivo":               m.Motivo,
		"observaciones":        m.Observaciones,
		"updated_at":           m.UpdatedAt,
	}).Where(sq.Eq{"id": m.ID}))
	if err != nil {
		return writeErr(err, "movimiento")
	}
	return affected(cmd, "movimiento", m.ID)
}

// List lista movimientos con filtros, el más reciente primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.MovementDetail, int, error) {
	where := sq.And{}
	if f.EquipoID != "" {
		where = append(where, sq.Eq{"mv.equipo_id": f.EquipoID})
	}
	if f.ResponsableID != "" {
		where = append(where, sq.Eq{"mv.responsable_id": f.ResponsableID})
	}
	if f.UbicacionID != "" {
		where = append(where, sq.Or{
			sq.Eq{"mv.ubicacion_origen_id": f.UbicacionID},
			sq.Eq{"mv.ubicacion_destino_id": f.UbicacionID},
		})
	}
	if f.Desde != nil {
		where = append(where, sq.GtOrEq{"mv.fecha": *f.Desde})
	}
	if f.Hasta != nil {
		where = append(where, sq.LtOrEq{"mv.fecha": *f.Hasta})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("movimientos mv").Where(where))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.MovementDetail{}, 0, nil
	}
	b := movementDetailSelect().Where(where).OrderBy("mv.fecha DESC", "mv.id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanMovementDetail)
	if err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	return list, total, nil
}

// Delete borra el movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("movimientos").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "movimiento")
	}
	return affected(cmd, "movimiento", id)
}
