// Package solicitud implementa el ciclo de vida de las solicitudes de usuarios.
package solicitud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/lifecycle"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UseCase casos de uso de solicitudes. Sin bloqueo optimista: dos ediciones concurrentes
// de la misma solicitud se resuelven por última escritura.
type UseCase struct {
	repo      repository.SolicitudRepository
	equipment repository.EquipmentRepository
	tx        repository.TxRunner
	storage   ports.FileStorage
	log       zerolog.Logger
	now       func() time.Time
}

// New construye el caso de uso. storage se usa al borrar para eliminar los archivos adjuntos.
func New(repo repository.SolicitudRepository, equipment repository.EquipmentRepository, tx repository.TxRunner, storage ports.FileStorage, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, equipment: equipment, tx: tx, storage: storage, log: log, now: time.Now}
}

func toResponse(d *entity.SolicitudDetail) *dto.SolicitudResponse {
	resp := &dto.SolicitudResponse{
		ID:             d.ID,
		Tipo:           string(d.Tipo),
		Titulo:         d.Titulo,
		Descripcion:    d.Descripcion,
		Estado:         string(d.Estado),
		Respuesta:      d.Respuesta,
		FechaSolicitud: d.FechaSolicitud,
		FechaRespuesta: d.FechaRespuesta,
		Solicitante:    dto.UserSummaryFrom(d.Solicitante),
		Resolver:       dto.UserSummaryPtr(d.Resolver),
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Equipo != nil {
		eq := dto.EquipmentSummaryFrom(*d.Equipo)
		resp.Equipo = &eq
	}
	return resp
}

// Create registra una solicitud en estado pendiente. El equipo es opcional pero debe existir si se indica.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateSolicitudRequest) (*dto.SolicitudResponse, error) {
	if err := authz.Require(actor, authz.SolicitudesCreate); err != nil {
		return nil, err
	}
	tipo := entity.SolicitudTipo(in.Tipo)
	titulo := strings.TrimSpace(in.Titulo)
	descripcion := strings.TrimSpace(in.Descripcion)
	if !tipo.Valid() {
		return nil, fmt.Errorf("%w: tipo de solicitud %q no válido", domain.ErrInvalidInput, in.Tipo)
	}
	if titulo == "" || descripcion == "" {
		return nil, fmt.Errorf("%w: título y descripción son obligatorios", domain.ErrInvalidInput)
	}
	var equipoID *string
	if in.EquipoID != nil && *in.EquipoID != "" {
		eq, err := uc.equipment.GetByID(ctx, *in.EquipoID)
		if err != nil {
			return nil, err
		}
		if eq == nil {
			return nil, fmt.Errorf("%w: el equipo %s no existe", domain.ErrInvalidInput, *in.EquipoID)
		}
		equipoID = &eq.ID
	}
	now := uc.now().UTC()
	s := &entity.Solicitud{
		ID:             uuid.New().String(),
		SolicitanteID:  actor.ID,
		EquipoID:       equipoID,
		Tipo:           tipo,
		Titulo:         titulo,
		Descripcion:    descripcion,
		Estado:         entity.SolicitudPendiente,
		FechaSolicitud: now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return uc.detail(ctx, s.ID)
}

func (uc *UseCase) detail(ctx context.Context, id string) (*dto.SolicitudResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return toResponse(d), nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Solicitud, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Get devuelve la solicitud al solicitante o a un administrador.
func (uc *UseCase) Get(ctx context.Context, actor authz.Actor, id string) (*dto.SolicitudResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, s.SolicitanteID, authz.SolicitudesViewAll); err != nil {
		return nil, err
	}
	return uc.detail(ctx, id)
}

// List lista solicitudes. Quien no es administrador solo ve las suyas, sin importar el filtro pedido.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, q dto.SolicitudListQuery, page dto.PageRequest) (*dto.Page[dto.SolicitudResponse], error) {
	page.Normalize()
	desde, hasta, err := dto.ParseDateRange(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	filter := repository.SolicitudFilter{
		SolicitanteID: q.SolicitanteID,
		EquipoID:      q.EquipoID,
		Estado:        entity.SolicitudEstado(q.Estado),
		Tipo:          entity.SolicitudTipo(q.Tipo),
		Desde:         desde,
		Hasta:         hasta,
	}
	if !actor.Can(authz.SolicitudesViewAll) {
		filter.SolicitanteID = actor.ID
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.SolicitudResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toResponse(d))
	}
	return &dto.Page[dto.SolicitudResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update edita una solicitud según la política de lifecycle.AuthorizeSolicitudEdit.
// Toda la validación ocurre antes de escribir.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateSolicitudRequest) (*dto.SolicitudResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	edit := lifecycle.SolicitudEdit{
		ContentChanged: in.Tipo != nil || in.Titulo != nil || in.Descripcion != nil,
		Respuesta:      in.Respuesta,
	}
	if in.Estado != nil {
		estado := entity.SolicitudEstado(*in.Estado)
		edit.Estado = &estado
	}
	if err := lifecycle.AuthorizeSolicitudEdit(actor, s, edit); err != nil {
		return nil, err
	}

	if in.Tipo != nil {
		tipo := entity.SolicitudTipo(*in.Tipo)
		if !tipo.Valid() {
			return nil, fmt.Errorf("%w: tipo de solicitud %q no válido", domain.ErrInvalidInput, *in.Tipo)
		}
		s.Tipo = tipo
	}
	if in.Titulo != nil {
		if s.Titulo = strings.TrimSpace(*in.Titulo); s.Titulo == "" {
			return nil, fmt.Errorf("%w: el título no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.Descripcion != nil {
		if s.Descripcion = strings.TrimSpace(*in.Descripcion); s.Descripcion == "" {
			return nil, fmt.Errorf("%w: la descripción no puede quedar vacía", domain.ErrInvalidInput)
		}
	}
	now := uc.now().UTC()
	if in.Respuesta != nil {
		s.Respuesta = *in.Respuesta
	}
	if edit.Estado != nil {
		lifecycle.ApplySolicitudEstado(s, *edit.Estado, actor.ID, now)
	}
	s.UpdatedAt = now
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.detail(ctx, id)
}

// Respond respuesta formal del administrador; siempre sella resolutor y fecha.
func (uc *UseCase) Respond(ctx context.Context, actor authz.Actor, id string, in dto.RespondSolicitudRequest) (*dto.SolicitudResponse, error) {
	if err := authz.Require(actor, authz.SolicitudesRespond); err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	if err := lifecycle.RespondSolicitud(s, entity.SolicitudEstado(in.Estado), in.Respuesta, actor.ID, now); err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.detail(ctx, id)
}

// Delete borra la solicitud y sus adjuntos (solo administrador). Las filas se borran en una
// transacción; los archivos se eliminan después, y si alguno falta solo se registra.
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.SolicitudesDelete); err != nil {
		return err
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	var paths []string
	err := uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		atts, err := tx.Attachments.ListBySolicitud(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range atts {
			paths = append(paths, a.StoragePath)
		}
		if err := tx.Attachments.DeleteBySolicitud(ctx, id); err != nil {
			return err
		}
		return tx.Solicitudes.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := uc.storage.Delete(ctx, p); err != nil {
			ev := uc.log.Warn()
			if !errors.Is(err, domain.ErrFileMissing) {
				ev = uc.log.Error()
			}
			ev.Err(err).Str("solicitud_id", id).Str("path", p).Msg("no se pudo eliminar el archivo adjunto")
		}
	}
	return nil
}
