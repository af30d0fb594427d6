// Package report genera exportaciones PDF y Excel de inventario, mantenimientos,
// movimientos y solicitudes, y guarda el registro de cada trabajo.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var mimeTypes = map[entity.ReporteFormato]string{
	entity.FormatoPDF:   "application/pdf",
	entity.FormatoExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Sources repositorios de solo lectura de los que se proyectan los reportes.
type Sources struct {
	Equipment   repository.EquipmentRepository
	Maintenance repository.MaintenanceRepository
	Movements   repository.MovementRepository
	Solicitudes repository.SolicitudRepository
	Users       repository.UserRepository
}

// File reporte listo para descargar. Content debe cerrarse.
type File struct {
	Name     string
	MIMEType string
	Content  io.ReadCloser
}

// UseCase casos de uso de reportes.
type UseCase struct {
	repo        repository.ReportRepository
	equipment   repository.EquipmentRepository
	maintenance repository.MaintenanceRepository
	movements   repository.MovementRepository
	solicitudes repository.SolicitudRepository
	users       repository.UserRepository
	renderers   map[entity.ReporteFormato]ports.ReportRenderer
	storage     ports.FileStorage
	log         zerolog.Logger
	now         func() time.Time
}

// New construye el caso de uso. renderers asocia cada formato con su generador.
func New(repo repository.ReportRepository, src Sources, renderers map[entity.ReporteFormato]ports.ReportRenderer, storage ports.FileStorage, log zerolog.Logger) *UseCase {
	return &UseCase{
		repo:        repo,
		equipment:   src.Equipment,
		maintenance: src.Maintenance,
		movements:   src.Movements,
		solicitudes: src.Solicitudes,
		users:       src.Users,
		renderers:   renderers,
		storage:     storage,
		log:         log,
		now:         time.Now,
	}
}

func toResponse(r *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:          r.ID,
		Tipo:        string(r.Tipo),
		Formato:     string(r.Formato),
		Estado:      string(r.Estado),
		Error:       r.Error,
		Parametros:  r.Parametros,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

func fileName(r *entity.Report) string {
	return fmt.Sprintf("reporte-%s-%s%s", r.Tipo, r.CreatedAt.Format("20060102-150405"), r.Formato.Extension())
}

// Generate crea el registro en estado generando, proyecta los datos, los renderiza y guarda
// el archivo. Un fallo de proyección, render o almacenamiento deja el registro en error con
// el mensaje y se devuelve igualmente el registro (no es un error de la petición).
func (uc *UseCase) Generate(ctx context.Context, actor authz.Actor, in dto.GenerateReportRequest) (*dto.ReportResponse, error) {
	if err := authz.Require(actor, authz.ReportsGenerate); err != nil {
		return nil, err
	}
	tipo := entity.ReporteTipo(in.Tipo)
	if !tipo.Valid() {
		return nil, fmt.Errorf("%w: tipo de reporte %q", domain.ErrInvalidInput, in.Tipo)
	}
	formato := entity.ReporteFormato(in.Formato)
	renderer, ok := uc.renderers[formato]
	if !formato.Valid() || !ok {
		return nil, fmt.Errorf("%w: formato de reporte %q", domain.ErrInvalidInput, in.Formato)
	}
	rep := &entity.Report{
		ID:            uuid.New().String(),
		SolicitanteID: actor.ID,
		Tipo:          tipo,
		Formato:       formato,
		Parametros:    in.Filtros,
		Estado:        entity.ReporteGenerando,
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	path, genErr := uc.render(ctx, actor, rep, renderer)
	if genErr != nil {
		// también con filtros inválidos: el registro no queda en generando
		rep.Estado = entity.ReporteError
		rep.Error = genErr.Error()
		uc.log.Error().Err(genErr).Str("reporte_id", rep.ID).Str("tipo", string(tipo)).Msg("fallo al generar reporte")
	} else {
		done := uc.now().UTC()
		rep.Estado = entity.ReporteCompletado
		rep.ArchivoPath = path
		rep.CompletedAt = &done
	}
	if err := uc.repo.Update(ctx, rep); err != nil {
		if path != "" {
			if delErr := uc.storage.Delete(ctx, path); delErr != nil {
				uc.log.Warn().Err(delErr).Str("path", path).Msg("no se pudo limpiar el archivo de reporte")
			}
		}
		return nil, err
	}
	if genErr != nil && errors.Is(genErr, domain.ErrInvalidInput) {
		return nil, genErr
	}
	return toResponse(rep), nil
}

func (uc *UseCase) render(ctx context.Context, actor authz.Actor, rep *entity.Report, renderer ports.ReportRenderer) (string, error) {
	table, err := uc.projector(rep.Tipo)(ctx, rep.Parametros)
	if err != nil {
		return "", err
	}
	table.Subtitle = subtitle(rep.Parametros)
	table.GeneratedAt = rep.CreatedAt
	table.GeneratedBy = actor.ID
	if u, err := uc.users.GetByID(ctx, actor.ID); err == nil && u != nil {
		table.GeneratedBy = u.Name
	}
	content, err := renderer.Render(ctx, table)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", rep.Formato, err)
	}
	stored, err := uc.storage.Save(ctx, fileName(rep), bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("guardar reporte: %w", err)
	}
	return stored.Path, nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Report, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
	}
	return r, nil
}

// List lista reportes; quien no es administrador solo ve los suyos.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, page dto.PageRequest) (*dto.Page[dto.ReportResponse], error) {
	page.Normalize()
	owner := ""
	if !actor.Can(authz.ReportsViewAll) {
		owner = actor.ID
	}
	list, total, err := uc.repo.List(ctx, owner, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toResponse(r))
	}
	return &dto.Page[dto.ReportResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Download abre el archivo de un reporte completado (dueño o administrador).
func (uc *UseCase) Download(ctx context.Context, actor authz.Actor, id string) (*File, error) {
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, r.SolicitanteID, authz.ReportsViewAll); err != nil {
		return nil, err
	}
	if r.Estado != entity.ReporteCompletado {
		return nil, fmt.Errorf("%w: el reporte está en estado %s", domain.ErrConflict, r.Estado)
	}
	rc, err := uc.storage.Open(ctx, r.ArchivoPath)
	if err != nil {
		return nil, err
	}
	return &File{Name: fileName(r), MIMEType: mimeTypes[r.Formato], Content: rc}, nil
}

// Delete borra el registro y, si existe, su archivo (solo administrador).
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ReportsDelete); err != nil {
		return err
	}
	r, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, r.ID); err != nil {
		return err
	}
	if r.ArchivoPath == "" {
		return nil
	}
	if err := uc.storage.Delete(ctx, r.ArchivoPath); err != nil {
		if errors.Is(err, domain.ErrFileMissing) {
			uc.log.Warn().Str("path", r.ArchivoPath).Msg("archivo de reporte ausente al borrar")
			return nil
		}
		uc.log.Error().Err(err).Str("path", r.ArchivoPath).Msg("no se pudo borrar el archivo de reporte")
	}
	return nil
}
