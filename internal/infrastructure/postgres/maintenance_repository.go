package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var _ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)

var maintenanceColumns = []string{
	"m.id", "m.equipo_id", "m.tecnico_id", "m.tipo", "m.descripcion", "m.fecha", "m.costo",
	"m.estado", "m.observaciones", "m.created_at", "m.updated_at",
}

var maintenanceDetailColumns = append(append([]string{}, maintenanceColumns...),
	"e.codigo_inventario", "e.nombre", "u.nombre", "u.email",
)

// MaintenanceRepo mantenimientos sobre PostgreSQL (pool o tx).
type MaintenanceRepo struct {
	q Querier
}

// NewMaintenanceRepository construye el adaptador.
func NewMaintenanceRepository(q Querier) *MaintenanceRepo {
	return &MaintenanceRepo{q: q}
}

func maintenanceDest(m *entity.Maintenance) []any {
	return []any{
		&m.ID, &m.EquipoID, &m.TecnicoID, &m.Tipo, &m.Descripcion, &m.Fecha, &m.Costo,
		&m.Estado, &m.Observaciones, &m.CreatedAt, &m.UpdatedAt,
	}
}

func scanMaintenance(row pgx.Row) (*entity.Maintenance, error) {
	var m entity.Maintenance
	if err := row.Scan(maintenanceDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan mantenimiento: %w", err)
	}
	return &m, nil
}

func scanMaintenanceDetail(row pgx.Row) (*entity.MaintenanceDetail, error) {
	var d entity.MaintenanceDetail
	dest := append(maintenanceDest(&d.Maintenance), &d.Equipo.InventoryCode, &d.Equipo.Name, &d.Tecnico.Name, &d.Tecnico.Email)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan mantenimiento: %w", err)
	}
	d.Equipo.ID = d.EquipoID
	d.Tecnico.ID = d.TecnicoID
	return &d, nil
}

func maintenanceDetailSelect() sq.SelectBuilder {
	return psql.Select(maintenanceDetailColumns...).
		From("mantenimientos m").
		Join("equipos e ON e.id = m.equipo_id").
		Join("users u ON u.id = m.tecnico_id")
}

// Create persiste un mantenimiento.
func (r *MaintenanceRepo) Create(ctx context.Context, m *entity.Maintenance) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("mantenimientos").Columns(
		"id", "equipo_id", "tecnico_id", "tipo", "descripcion", "fecha", "costo",
		"estado", "observaciones", "created_at", "updated_at",
	).Values(
		m.ID, m.EquipoID, m.TecnicoID, m.Tipo, m.Descripcion, m.Fecha, m.Costo,
		m.Estado, m.Observaciones, m.CreatedAt, m.UpdatedAt,
	))
	if err != nil {
		return writeErr(err, "mantenimiento")
	}
	return nil
}

// GetByID obtiene un mantenimiento.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id string) (*entity.Maintenance, error) {
	return queryOne(ctx, r.q, psql.Select(maintenanceColumns...).From("mantenimientos m").Where(sq.Eq{"m.id": id}), scanMaintenance)
}

// GetDetail obtiene el mantenimiento con equipo y técnico.
func (r *MaintenanceRepo) GetDetail(ctx context.Context, id string) (*entity.MaintenanceDetail, error) {
	return queryOne(ctx, r.q, maintenanceDetailSelect().Where(sq.Eq{"m.id": id}), scanMaintenanceDetail)
}

// Update reescribe los campos editables.
func (r *MaintenanceRepo) Update(ctx context.Context, m *entity.Maintenance) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("mantenimientos").SetMap(map[string]any{
		"tecnico_id":    m.TecnicoID,
		"tipo":          m.Tipo,
		"descripcion":   m.Descripcion,
		"fecha":         m.Fecha,
		"costo":         m.Costo,
		"estado":        m.Estado,
		"observaciones": m.Observaciones,
		"updated_at":    m.UpdatedAt,
	}).Where(sq.Eq{"id": m.ID}))
	if err != nil {
		return writeErr(err, "mantenimiento")
	}
	return affected(cmd, "mantenimiento", m.ID)
}

// List lista mantenimientos con filtros, el más reciente primero.
func (r *MaintenanceRepo) List(ctx context.Context, f repository.MaintenanceFilter, limit, offset int) ([]*entity.MaintenanceDetail, int, error) {
	where := sq.And{}
	if f.EquipoID != "" {
		where = append(where, sq.Eq{"m.equipo_id": f.EquipoID})
	}
	if f.TecnicoID != "" {
		where = append(where, sq.Eq{"m.tecnico_id": f.TecnicoID})
	}
	if f.Estado != "" {
		where = append(where, sq.Eq{"m.estado": f.Estado})
	}
	if f.Tipo != "" {
		where = append(where, sq.Eq{"m.tipo": f.Tipo})
	}
	if f.Desde != nil {
		where = append(where, sq.GtOrEq{"m.fecha": *f.Desde})
	}
	if f.Hasta != nil {
		where = append(where, sq.LtOrEq{"m.fecha": *f.Hasta})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("mantenimientos m").Where(where))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.MaintenanceDetail{}, 0, nil
	}
	b := maintenanceDetailSelect().Where(where).OrderBy("m.fecha DESC", "m.id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanMaintenanceDetail)
	if err != nil {
		return nil, 0, fmt.Errorf("list mantenimientos: %w", err)
	}
	return list, total, nil
}

// Delete borra el mantenimiento.
func (r *MaintenanceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("mantenimientos").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "mantenimiento")
	}
	return affected(cmd, "mantenimiento", id)
}

// Stats conteo por estado y suma de costos de los completados, en una sola consulta.
func (r *MaintenanceRepo) Stats(ctx context.Context) (*entity.MaintenanceStats, error) {
	const query = `
		SELECT estado, COUNT(*), COALESCE(SUM(costo), 0)
		FROM mantenimientos GROUP BY estado`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats mantenimientos: %w", err)
	}
	defer rows.Close()
	stats := &entity.MaintenanceStats{PorEstado: map[entity.MantenimientoEstado]int{}, CostoCompletado: decimal.Zero}
	for rows.Next() {
		var estado entity.MantenimientoEstado
		var n int
		var sum decimal.Decimal
		if err := rows.Scan(&estado, &n, &sum); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.PorEstado[estado] = n
		stats.Total += n
		if estado == entity.MantenimientoCompletado {
			stats.CostoCompletado = sum
		}
	}
	return stats, rows.Err()
}
