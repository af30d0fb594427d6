// Package alert implementa el registro manual de alertas sobre equipos, solicitudes y mantenimientos.
package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UseCase casos de uso de alertas.
type UseCase struct {
	repo        repository.AlertRepository
	equipment   repository.EquipmentRepository
	solicitudes repository.SolicitudRepository
	maintenance repository.MaintenanceRepository
	users       repository.UserRepository
	log         zerolog.Logger
	now         func() time.Time
}

// New construye el caso de uso.
func New(
	repo repository.AlertRepository,
	equipment repository.EquipmentRepository,
	solicitudes repository.SolicitudRepository,
	maintenance repository.MaintenanceRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:        repo,
		equipment:   equipment,
		solicitudes: solicitudes,
		maintenance: maintenance,
		users:       users,
		log:         log,
		now:         time.Now,
	}
}

func toResponse(a *entity.Alert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:              a.ID,
		Tipo:            string(a.Tipo),
		Prioridad:       string(a.Prioridad),
		Mensaje:         a.Mensaje,
		Estado:          string(a.Estado),
		EquipoID:        a.EquipoID,
		SolicitudID:     a.SolicitudID,
		MantenimientoID: a.MantenimientoID,
		DestinatarioID:  a.DestinatarioID,
		OrigenID:        a.OrigenID,
		FechaGeneracion: a.FechaGeneracion,
		FechaResolucion: a.FechaResolucion,
		UpdatedAt:       a.UpdatedAt,
	}
}

func blank(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

// checkRefs verifica cada referencia opcional; la primera que falta se nombra en el error.
func (uc *UseCase) checkRefs(ctx context.Context, a *entity.Alert) error {
	if a.EquipoID != nil {
		eq, err := uc.equipment.GetByID(ctx, *a.EquipoID)
		if err != nil {
			return err
		}
		if eq == nil {
			return fmt.Errorf("%w: el equipo %s no existe", domain.ErrInvalidInput, *a.EquipoID)
		}
	}
	if a.SolicitudID != nil {
		s, err := uc.solicitudes.GetByID(ctx, *a.SolicitudID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: la solicitud %s no existe", domain.ErrInvalidInput, *a.SolicitudID)
		}
	}
	if a.MantenimientoID != nil {
		m, err := uc.maintenance.GetByID(ctx, *a.MantenimientoID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: el mantenimiento %s no existe", domain.ErrInvalidInput, *a.MantenimientoID)
		}
	}
	return uc.checkDestinatario(ctx, a.DestinatarioID)
}

func (uc *UseCase) checkDestinatario(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	u, err := uc.users.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: el destinatario %s no existe", domain.ErrInvalidInput, *id)
	}
	return nil
}

// Create levanta una alerta (administrador o técnico). Sin tipo se usa general.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if err := authz.Require(actor, authz.AlertsCreate); err != nil {
		return nil, err
	}
	tipo := entity.AlertaTipo(in.Tipo)
	if tipo == "" {
		tipo = entity.AlertaGeneral
	}
	if !tipo.Valid() {
		return nil, fmt.Errorf("%w: tipo de alerta %q", domain.ErrInvalidInput, in.Tipo)
	}
	prioridad := entity.AlertaPrioridad(in.Prioridad)
	if !prioridad.Valid() {
		return nil, fmt.Errorf("%w: prioridad %q", domain.ErrInvalidInput, in.Prioridad)
	}
	mensaje := strings.TrimSpace(in.Mensaje)
	if mensaje == "" {
		return nil, fmt.Errorf("%w: el mensaje es obligatorio", domain.ErrInvalidInput)
	}
	now := uc.now().UTC()
	a := &entity.Alert{
		ID:              uuid.New().String(),
		Tipo:            tipo,
		Prioridad:       prioridad,
		Mensaje:         mensaje,
		EquipoID:        blank(in.EquipoID),
		SolicitudID:     blank(in.SolicitudID),
		MantenimientoID: blank(in.MantenimientoID),
		DestinatarioID:  blank(in.DestinatarioID),
		OrigenID:        actor.ID,
		Estado:          entity.AlertaActiva,
		FechaGeneracion: now,
		UpdatedAt:       now,
	}
	if err := uc.checkRefs(ctx, a); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toResponse(a), nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	return a, nil
}

func addressedTo(a *entity.Alert, userID string) bool {
	return a.DestinatarioID != nil && *a.DestinatarioID == userID
}

// Get devuelve una alerta al administrador, a su autor o a su destinatario.
func (uc *UseCase) Get(ctx context.Context, actor authz.Actor, id string) (*dto.AlertResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !addressedTo(a, actor.ID) {
		if err := authz.RequireOwnerOr(actor, a.OrigenID, authz.AlertsViewAll); err != nil {
			return nil, err
		}
	}
	return toResponse(a), nil
}

// List lista alertas. Quien no es administrador solo ve las que creó o le fueron dirigidas.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, q dto.AlertListQuery, page dto.PageRequest) (*dto.Page[dto.AlertResponse], error) {
	page.Normalize()
	filter := repository.AlertFilter{
		Estado:    entity.AlertaEstado(q.Estado),
		Prioridad: entity.AlertaPrioridad(q.Prioridad),
		Tipo:      entity.AlertaTipo(q.Tipo),
		EquipoID:  q.EquipoID,
	}
	if !actor.Can(authz.AlertsViewAll) {
		filter.VisibleTo = actor.ID
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toResponse(a))
	}
	return &dto.Page[dto.AlertResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update edita una alerta (administrador o autor). Pasar a resuelta fija la fecha de resolución.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, a.OrigenID, authz.AlertsUpdateAny); err != nil {
		return nil, err
	}
	if in.Tipo != nil {
		if a.Tipo = entity.AlertaTipo(*in.Tipo); !a.Tipo.Valid() {
			return nil, fmt.Errorf("%w: tipo de alerta %q", domain.ErrInvalidInput, *in.Tipo)
		}
	}
	if in.Prioridad != nil {
		if a.Prioridad = entity.AlertaPrioridad(*in.Prioridad); !a.Prioridad.Valid() {
			return nil, fmt.Errorf("%w: prioridad %q", domain.ErrInvalidInput, *in.Prioridad)
		}
	}
	if in.Mensaje != nil {
		if a.Mensaje = strings.TrimSpace(*in.Mensaje); a.Mensaje == "" {
			return nil, fmt.Errorf("%w: el mensaje no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.DestinatarioID != nil {
		a.DestinatarioID = blank(in.DestinatarioID)
		if err := uc.checkDestinatario(ctx, a.DestinatarioID); err != nil {
			return nil, err
		}
	}
	now := uc.now().UTC()
	if in.Estado != nil {
		next := entity.AlertaEstado(*in.Estado)
		if !next.Valid() {
			return nil, fmt.Errorf("%w: estado de alerta %q", domain.ErrInvalidInput, *in.Estado)
		}
		if next == entity.AlertaResuelta && a.Estado != entity.AlertaResuelta {
			a.FechaResolucion = &now
		}
		a.Estado = next
	}
	a.UpdatedAt = now
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toResponse(a), nil
}

// MarkRead marca como leída una alerta activa. Pueden hacerlo el destinatario, el autor o un administrador.
// Sobre una alerta ya leída, resuelta o descartada no hace nada.
func (uc *UseCase) MarkRead(ctx context.Context, actor authz.Actor, id string) (*dto.AlertResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !addressedTo(a, actor.ID) {
		if err := authz.RequireOwnerOr(actor, a.OrigenID, authz.AlertsUpdateAny); err != nil {
			return nil, err
		}
	}
	if a.Estado != entity.AlertaActiva {
		return toResponse(a), nil
	}
	a.Estado = entity.AlertaLeida
	a.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toResponse(a), nil
}

// Delete borra una alerta (solo administrador).
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.AlertsDelete); err != nil {
		return err
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}
