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

var (
	_ repository.AlertRepository  = (*AlertRepo)(nil)
	_ repository.ReportRepository = (*ReportRepo)(nil)
)

var alertColumns = []string{
	"id", "tipo", "prioridad", "mensaje", "equipo_id", "solicitud_id", "mantenimiento_id",
	"destinatario_id", "origen_id", "estado", "fecha_generacion", "fecha_resolucion", "updated_at",
}

// AlertRepo alertas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(
		&a.ID, &a.Tipo, &a.Prioridad, &a.Mensaje, &a.EquipoID, &a.SolicitudID, &a.MantenimientoID,
		&a.DestinatarioID, &a.OrigenID, &a.Estado, &a.FechaGeneracion, &a.FechaResolucion, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan alerta: %w", err)
	}
	return &a, nil
}

// Create persiste una alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("alertas").Columns(alertColumns...).Values(
		a.ID, a.Tipo, a.Prioridad, a.Mensaje, a.EquipoID, a.SolicitudID, a.MantenimientoID,
		a.DestinatarioID, a.OrigenID, a.Estado, a.FechaGeneracion, a.FechaResolucion, a.UpdatedAt,
	))
	if err != nil {
		return writeErr(err, "alerta")
	}
	return nil
}

// GetByID obtiene una alerta.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return queryOne(ctx, r.q, psql.Select(alertColumns...).From("alertas").Where(sq.Eq{"id": id}), scanAlert)
}

// Update reescribe los campos editables y el estado.
func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("alertas").SetMap(map[string]any{
		"tipo":             a.Tipo,
		"prioridad":        a.Prioridad,
		"mensaje":          a.Mensaje,
		"destinatario_id":  a.DestinatarioID,
		"estado":           a.Estado,
		"fecha_resolucion": a.FechaResolucion,
		"updated_at":       a.UpdatedAt,
	}).Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return writeErr(err, "alerta")
	}
	return affected(cmd, "alerta", a.ID)
}

// List lista alertas con filtros, la más reciente primero.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter, limit, offset int) ([]*entity.Alert, int, error) {
	where := sq.And{}
	if f.VisibleTo != "" {
		where = append(where, sq.Or{sq.Eq{"origen_id": f.VisibleTo}, sq.Eq{"destinatario_id": f.VisibleTo}})
	}
	if f.Estado != "" {
		where = append(where, sq.Eq{"estado": f.Estado})
	}
	if f.Prioridad != "" {
		where = append(where, sq.Eq{"prioridad": f.Prioridad})
	}
	if f.Tipo != "" {
		where = append(where, sq.Eq{"tipo": f.Tipo})
	}
	if f.EquipoID != "" {
		where = append(where, sq.Eq{"equipo_id": f.EquipoID})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("alertas").Where(where))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.Alert{}, 0, nil
	}
	b := psql.Select(alertColumns...).From("alertas").Where(where).OrderBy("fecha_generacion DESC", "id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanAlert)
	if err != nil {
		return nil, 0, fmt.Errorf("list alertas: %w", err)
	}
	return list, total, nil
}

// Delete borra la alerta.
func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("alertas").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "alerta")
	}
	return affected(cmd, "alerta", id)
}

// ── Reportes ─────────────────────────────────────────────────────────────────

var reportColumns = []string{
	"id", "solicitante_id", "tipo", "formato", "parametros", "archivo_path", "estado", "error",
	"created_at", "completed_at",
}

// ReportRepo registros de trabajos de reporte.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rep entity.Report
	err := row.Scan(
		&rep.ID, &rep.SolicitanteID, &rep.Tipo, &rep.Formato, &rep.Parametros, &rep.ArchivoPath,
		&rep.Estado, &rep.Error, &rep.CreatedAt, &rep.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan reporte: %w", err)
	}
	return &rep, nil
}

func params(p map[string]string) map[string]string {
	if p == nil {
		return map[string]string{}
	}
	return p
}

// Create persiste el registro del trabajo.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("reportes").Columns(reportColumns...).Values(
		rep.ID, rep.SolicitanteID, rep.Tipo, rep.Formato, params(rep.Parametros), rep.ArchivoPath,
		rep.Estado, rep.Error, rep.CreatedAt, rep.CompletedAt,
	))
	if err != nil {
		return writeErr(err, "reporte")
	}
	return nil
}

// GetByID obtiene un reporte.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	return queryOne(ctx, r.q, psql.Select(reportColumns...).From("reportes").Where(sq.Eq{"id": id}), scanReport)
}

// Update guarda el resultado de la generación.
func (r *ReportRepo) Update(ctx context.Context, rep *entity.Report) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("reportes").SetMap(map[string]any{
		"archivo_path": rep.ArchivoPath,
		"estado":       rep.Estado,
		"error":        rep.Error,
		"completed_at": rep.CompletedAt,
	}).Where(sq.Eq{"id": rep.ID}))
	if err != nil {
		return writeErr(err, "reporte")
	}
	return affected(cmd, "reporte", rep.ID)
}

// List lista reportes, el más reciente primero. solicitanteID vacío devuelve todos.
func (r *ReportRepo) List(ctx context.Context, solicitanteID string, limit, offset int) ([]*entity.Report, int, error) {
	where := sq.And{}
	if solicitanteID != "" {
		where = append(where, sq.Eq{"solicitante_id": solicitanteID})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("reportes").Where(where))
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(reportColumns...).From("reportes").Where(where).OrderBy("created_at DESC", "id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanReport)
	if err != nil {
		return nil, 0, fmt.Errorf("list reportes: %w", err)
	}
	return list, total, nil
}

// Delete borra el registro.
func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("reportes").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "reporte")
	}
	return affected(cmd, "reporte", id)
}
