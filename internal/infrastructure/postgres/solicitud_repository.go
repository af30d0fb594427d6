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
	_ repository.SolicitudRepository  = (*SolicitudRepo)(nil)
	_ repository.AttachmentRepository = (*AttachmentRepo)(nil)
)

var solicitudColumns = []string{
	"s.id", "s.solicitante_id", "s.equipo_id", "s.tipo", "s.titulo", "s.descripcion", "s.estado",
	"s.respuesta", "s.resolver_id", "s.fecha_solicitud", "s.fecha_respuesta", "s.updated_at",
}

var solicitudDetailColumns = append(append([]string{}, solicitudColumns...),
	"su.nombre", "su.email", "e.codigo_inventario", "e.nombre", "ru.nombre", "ru.email",
)

// SolicitudRepo solicitudes sobre PostgreSQL (pool o tx).
type SolicitudRepo struct {
	q Querier
}

// NewSolicitudRepository construye el adaptador.
func NewSolicitudRepository(q Querier) *SolicitudRepo {
	return &SolicitudRepo{q: q}
}

func solicitudDest(s *entity.Solicitud) []any {
	return []any{
		&s.ID, &s.SolicitanteID, &s.EquipoID, &s.Tipo, &s.Titulo, &s.Descripcion, &s.Estado,
		&s.Respuesta, &s.ResolverID, &s.FechaSolicitud, &s.FechaRespuesta, &s.UpdatedAt,
	}
}

func scanSolicitud(row pgx.Row) (*entity.Solicitud, error) {
	var s entity.Solicitud
	if err := row.Scan(solicitudDest(&s)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan solicitud: %w", err)
	}
	return &s, nil
}

func scanSolicitudDetail(row pgx.Row) (*entity.SolicitudDetail, error) {
	var d entity.SolicitudDetail
	var eqCode, eqName, resName, resEmail *string
	dest := append(solicitudDest(&d.Solicitud), &d.Solicitante.Name, &d.Solicitante.Email, &eqCode, &eqName, &resName, &resEmail)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan solicitud: %w", err)
	}
	d.Solicitante.ID = d.SolicitanteID
	if d.EquipoID != nil && eqCode != nil {
		d.Equipo = &entity.EquipmentSummary{ID: *d.EquipoID, InventoryCode: *eqCode, Name: deref(eqName)}
	}
	if d.ResolverID != nil && resName != nil {
		d.Resolver = &entity.UserSummary{ID: *d.ResolverID, Name: *resName, Email: deref(resEmail)}
	}
	return &d, nil
}

func solicitudDetailSelect() sq.SelectBuilder {
	return psql.Select(solicitudDetailColumns...).
		From("solicitudes s").
		Join("users su ON su.id = s.solicitante_id").
		LeftJoin("equipos e ON e.id = s.equipo_id").
		LeftJoin("users ru ON ru.id = s.resolver_id")
}

// Create persiste una solicitud.
func (r *SolicitudRepo) Create(ctx context.Context, s *entity.Solicitud) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("solicitudes").Columns(
		"id", "solicitante_id", "equipo_id", "tipo", "titulo", "descripcion", "estado",
		"respuesta", "resolver_id", "fecha_solicitud", "fecha_respuesta", "updated_at",
	).Values(
		s.ID, s.SolicitanteID, s.EquipoID, s.Tipo, s.Titulo, s.Descripcion, s.Estado,
		s.Respuesta, s.ResolverID, s.FechaSolicitud, s.FechaRespuesta, s.UpdatedAt,
	))
	if err != nil {
		return writeErr(err, "solicitud")
	}
	return nil
}

// GetByID obtiene una solicitud sin joins.
func (r *SolicitudRepo) GetByID(ctx context.Context, id string) (*entity.Solicitud, error) {
	return queryOne(ctx, r.q, psql.Select(solicitudColumns...).From("solicitudes s").Where(sq.Eq{"s.id": id}), scanSolicitud)
}

// GetDetail obtiene la solicitud con solicitante, equipo y resolutor.
func (r *SolicitudRepo) GetDetail(ctx context.Context, id string) (*entity.SolicitudDetail, error) {
	return queryOne(ctx, r.q, solicitudDetailSelect().Where(sq.Eq{"s.id": id}), scanSolicitudDetail)
}

// Update reescribe contenido, estado y respuesta. Última escritura gana.
func (r *SolicitudRepo) Update(ctx context.Context, s *entity.Solicitud) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("solicitudes").SetMap(map[string]any{
		"equipo_id":       s.EquipoID,
		"tipo":            s.Tipo,
		"titulo":          s.Titulo,
		"descripcion":     s.Descripcion,
		"estado":          s.Estado,
		"respuesta":       s.Respuesta,
		"resolver_id":     s.ResolverID,
		"fecha_respuesta": s.FechaRespuesta,
		"updated_at":      s.UpdatedAt,
	}).Where(sq.Eq{"id": s.ID}))
	if err != nil {
		return writeErr(err, "solicitud")
	}
	return affected(cmd, "solicitud", s.ID)
}

// List lista solicitudes con filtros, de la más reciente a la más antigua.
func (r *SolicitudRepo) List(ctx context.Context, f repository.SolicitudFilter, limit, offset int) ([]*entity.SolicitudDetail, int, error) {
	where := sq.And{}
	if f.SolicitanteID != "" {
		where = append(where, sq.Eq{"s.solicitante_id": f.SolicitanteID})
	}
	if f.EquipoID != "" {
		where = append(where, sq.Eq{"s.equipo_id": f.EquipoID})
	}
	if f.Estado != "" {
		where = append(where, sq.Eq{"s.estado": f.Estado})
	}
	if f.Tipo != "" {
		where = append(where, sq.Eq{"s.tipo": f.Tipo})
	}
	if f.Desde != nil {
		where = append(where, sq.GtOrEq{"s.fecha_solicitud": *f.Desde})
	}
	if f.Hasta != nil {
		where = append(where, sq.LtOrEq{"s.fecha_solicitud": *f.Hasta})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("solicitudes s").Where(where))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.SolicitudDetail{}, 0, nil
	}
	b := solicitudDetailSelect().Where(where).OrderBy("s.fecha_solicitud DESC", "s.id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanSolicitudDetail)
	if err != nil {
		return nil, 0, fmt.Errorf("list solicitudes: %w", err)
	}
	return list, total, nil
}

// Delete borra la solicitud. Los adjuntos se borran antes en la misma transacción.
func (r *SolicitudRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("solicitudes").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "solicitud")
	}
	return affected(cmd, "solicitud", id)
}

// ── Adjuntos ─────────────────────────────────────────────────────────────────

var attachmentColumns = []string{
	"a.id", "a.solicitud_id", "a.nombre_original", "a.nombre_archivo", "a.ruta", "a.tipo_mime",
	"a.tamano", "a.descripcion", "a.subido_por", "a.fecha_subida",
}

// AttachmentRepo metadatos de adjuntos; el contenido vive en el almacenamiento de archivos.
type AttachmentRepo struct {
	q Querier
}

// NewAttachmentRepository construye el adaptador.
func NewAttachmentRepository(q Querier) *AttachmentRepo {
	return &AttachmentRepo{q: q}
}

func attachmentDest(a *entity.Attachment) []any {
	return []any{
		&a.ID, &a.SolicitudID, &a.OriginalName, &a.StoredName, &a.StoragePath, &a.MIMEType,
		&a.Size, &a.Descripcion, &a.UploadedBy, &a.UploadedAt,
	}
}

func scanAttachment(row pgx.Row) (*entity.Attachment, error) {
	var a entity.Attachment
	if err := row.Scan(attachmentDest(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan adjunto: %w", err)
	}
	return &a, nil
}

func scanAttachmentDetail(row pgx.Row) (*entity.AttachmentDetail, error) {
	var d entity.AttachmentDetail
	dest := append(attachmentDest(&d.Attachment), &d.Uploader.Name, &d.Uploader.Email)
	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan adjunto: %w", err)
	}
	d.Uploader.ID = d.UploadedBy
	return &d, nil
}

// Create persiste los metadatos de un adjunto.
func (r *AttachmentRepo) Create(ctx context.Context, a *entity.Attachment) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("adjuntos_solicitud").Columns(
		"id", "solicitud_id", "nombre_original", "nombre_archivo", "ruta", "tipo_mime",
		"tamano", "descripcion", "subido_por", "fecha_subida",
	).Values(
		a.ID, a.SolicitudID, a.OriginalName, a.StoredName, a.StoragePath, a.MIMEType,
		a.Size, a.Descripcion, a.UploadedBy, a.UploadedAt,
	))
	if err != nil {
		return writeErr(err, "adjunto")
	}
	return nil
}

// GetByID obtiene un adjunto.
func (r *AttachmentRepo) GetByID(ctx context.Context, id string) (*entity.Attachment, error) {
	return queryOne(ctx, r.q, psql.Select(attachmentColumns...).From("adjuntos_solicitud a").Where(sq.Eq{"a.id": id}), scanAttachment)
}

// ListBySolicitud adjuntos de la solicitud, el más reciente primero, con quien lo subió.
func (r *AttachmentRepo) ListBySolicitud(ctx context.Context, solicitudID string) ([]*entity.AttachmentDetail, error) {
	cols := append(append([]string{}, attachmentColumns...), "u.nombre", "u.email")
	b := psql.Select(cols...).
		From("adjuntos_solicitud a").
		Join("users u ON u.id = a.subido_por").
		Where(sq.Eq{"a.solicitud_id": solicitudID}).
		OrderBy("a.fecha_subida DESC", "a.id DESC")
	return queryRows(ctx, r.q, b, scanAttachmentDetail)
}

// Delete borra la fila del adjunto.
func (r *AttachmentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("adjuntos_solicitud").Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "adjunto")
	}
	return affected(cmd, "adjunto", id)
}

// DeleteBySolicitud borra todas las filas de adjuntos de una solicitud.
func (r *AttachmentRepo) DeleteBySolicitud(ctx context.Context, solicitudID string) error {
	_, err := execBuilder(ctx, r.q, psql.Delete("adjuntos_solicitud").Where(sq.Eq{"solicitud_id": solicitudID}))
	if err != nil {
		return writeErr(err, "adjuntos")
	}
	return nil
}
