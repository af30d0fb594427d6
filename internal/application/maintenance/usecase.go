// Package maintenance implementa el ciclo de vida de los mantenimientos y su efecto sobre el estado del equipo.
package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/lifecycle"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UseCase casos de uso de mantenimientos.
type UseCase struct {
	repo      repository.MaintenanceRepository
	equipment repository.EquipmentRepository
	users     repository.UserRepository
	tx        repository.TxRunner
	log       zerolog.Logger
	now       func() time.Time
}

// New construye el caso de uso.
func New(repo repository.MaintenanceRepository, equipment repository.EquipmentRepository, users repository.UserRepository, tx repository.TxRunner, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, equipment: equipment, users: users, tx: tx, log: log, now: time.Now}
}

func toResponse(d *entity.MaintenanceDetail) *dto.MaintenanceResponse {
	return &dto.MaintenanceResponse{
		ID:            d.ID,
		Tipo:          string(d.Tipo),
		Descripcion:   d.Descripcion,
		Fecha:         d.Fecha,
		Costo:         d.Costo,
		Estado:        string(d.Estado),
		Observaciones: d.Observaciones,
		Equipo:        dto.EquipmentSummaryFrom(d.Equipo),
		Tecnico:       dto.UserSummaryFrom(d.Tecnico),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// applyEquipmentStatus aplica el efecto colateral de pasar de prev a next dentro de la transacción.
func applyEquipmentStatus(ctx context.Context, tx repository.TxRepos, equipoID string, prev, next entity.MantenimientoEstado) (string, error) {
	statusName, ok := lifecycle.EquipmentStatusFor(prev, next)
	if !ok {
		return "", nil
	}
	status, err := tx.Catalogs.GetByName(ctx, entity.CatalogEquipmentStatus, statusName)
	if err != nil {
		return "", err
	}
	if status == nil {
		return "", fmt.Errorf("estado de equipo %q no configurado", statusName)
	}
	if _, err := tx.Equipment.GetForUpdate(ctx, equipoID); err != nil {
		return "", err
	}
	if err := tx.Equipment.UpdateStatus(ctx, equipoID, status.ID); err != nil {
		return "", err
	}
	return statusName, nil
}

func (uc *UseCase) checkTecnico(ctx context.Context, id string) error {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || !u.Active {
		return fmt.Errorf("%w: el técnico %s no existe o está inactivo", domain.ErrInvalidInput, id)
	}
	return nil
}

// Create registra un mantenimiento (administrador o técnico). El técnico por defecto es quien llama.
// La fila y el estado del equipo se escriben en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	if err := authz.Require(actor, authz.MaintenanceCreate); err != nil {
		return nil, err
	}
	tipo := entity.MantenimientoTipo(in.Tipo)
	if !tipo.Valid() {
		return nil, fmt.Errorf("%w: tipo de mantenimiento %q no válido", domain.ErrInvalidInput, in.Tipo)
	}
	estado := entity.MantenimientoProgramado
	if in.Estado != "" {
		estado = entity.MantenimientoEstado(in.Estado)
		if !estado.Valid() {
			return nil, fmt.Errorf("%w: estado de mantenimiento %q no válido", domain.ErrInvalidInput, in.Estado)
		}
	}
	descripcion := strings.TrimSpace(in.Descripcion)
	if descripcion == "" {
		return nil, fmt.Errorf("%w: la descripción es obligatoria", domain.ErrInvalidInput)
	}
	costo := decimal.Zero
	if in.Costo != nil {
		if in.Costo.IsNegative() {
			return nil, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
		}
		costo = *in.Costo
	}
	eq, err := uc.equipment.GetByID(ctx, in.EquipoID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: el equipo %s no existe", domain.ErrInvalidInput, in.EquipoID)
	}
	tecnicoID := actor.ID
	if in.TecnicoID != nil && *in.TecnicoID != "" && *in.TecnicoID != actor.ID {
		if err := uc.checkTecnico(ctx, *in.TecnicoID); err != nil {
			return nil, err
		}
		tecnicoID = *in.TecnicoID
	}
	now := uc.now().UTC()
	fecha := now
	if in.Fecha != nil {
		fecha = in.Fecha.UTC()
	}
	m := &entity.Maintenance{
		ID:            uuid.New().String(),
		EquipoID:      eq.ID,
		TecnicoID:     tecnicoID,
		Tipo:          tipo,
		Descripcion:   descripcion,
		Fecha:         fecha,
		Costo:         costo,
		Estado:        estado,
		Observaciones: strings.TrimSpace(in.Observaciones),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var applied string
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		if err := tx.Maintenance.Create(ctx, m); err != nil {
			return err
		}
		var hookErr error
		applied, hookErr = applyEquipmentStatus(ctx, tx, m.EquipoID, "", m.Estado)
		return hookErr
	})
	if err != nil {
		return nil, err
	}
	if applied != "" {
		uc.log.Info().Str("equipo_id", m.EquipoID).Str("estado_equipo", applied).Msg("estado de equipo actualizado por mantenimiento")
	}
	return uc.Get(ctx, m.ID)
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Maintenance, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: mantenimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// Get obtiene un mantenimiento con equipo y técnico.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.MaintenanceResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: mantenimiento %s", domain.ErrNotFound, id)
	}
	return toResponse(d), nil
}

// List lista mantenimientos con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, q dto.MaintenanceListQuery, page dto.PageRequest) (*dto.Page[dto.MaintenanceResponse], error) {
	page.Normalize()
	desde, hasta, err := dto.ParseDateRange(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	filter := repository.MaintenanceFilter{
		EquipoID:  q.EquipoID,
		TecnicoID: q.TecnicoID,
		Estado:    entity.MantenimientoEstado(q.Estado),
		Tipo:      entity.MantenimientoTipo(q.Tipo),
		Desde:     desde,
		Hasta:     hasta,
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaintenanceResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toResponse(d))
	}
	return &dto.Page[dto.MaintenanceResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update edita un mantenimiento (administrador o técnico asignado). Si cambia el estado,
// el efecto sobre el equipo se aplica en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, m.TecnicoID, authz.MaintenanceUpdateAny); err != nil {
		return nil, err
	}
	prev := m.Estado
	if in.Tipo != nil {
		tipo := entity.MantenimientoTipo(*in.Tipo)
		if !tipo.Valid() {
			return nil, fmt.Errorf("%w: tipo de mantenimiento %q no válido", domain.ErrInvalidInput, *in.Tipo)
		}
		m.Tipo = tipo
	}
	if in.Estado != nil {
		estado := entity.MantenimientoEstado(*in.Estado)
		if !estado.Valid() {
			return nil, fmt.Errorf("%w: estado de mantenimiento %q no válido", domain.ErrInvalidInput, *in.Estado)
		}
		m.Estado = estado
	}
	if in.Descripcion != nil {
		if m.Descripcion = strings.TrimSpace(*in.Descripcion); m.Descripcion == "" {
			return nil, fmt.Errorf("%w: la descripción no puede quedar vacía", domain.ErrInvalidInput)
		}
	}
	if in.Costo != nil {
		if in.Costo.IsNegative() {
			return nil, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
		}
		m.Costo = *in.Costo
	}
	if in.Fecha != nil {
		m.Fecha = in.Fecha.UTC()
	}
	if in.Observaciones != nil {
		m.Observaciones = strings.TrimSpace(*in.Observaciones)
	}
	if in.TecnicoID != nil && *in.TecnicoID != m.TecnicoID {
		if err := authz.Require(actor, authz.MaintenanceUpdateAny); err != nil {
			return nil, fmt.Errorf("%w: solo un administrador reasigna el técnico", domain.ErrForbidden)
		}
		if err := uc.checkTecnico(ctx, *in.TecnicoID); err != nil {
			return nil, err
		}
		m.TecnicoID = *in.TecnicoID
	}
	m.UpdatedAt = uc.now().UTC()

	var applied string
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		if err := tx.Maintenance.Update(ctx, m); err != nil {
			return err
		}
		var hookErr error
		applied, hookErr = applyEquipmentStatus(ctx, tx, m.EquipoID, prev, m.Estado)
		return hookErr
	})
	if err != nil {
		return nil, err
	}
	if applied != "" {
		uc.log.Info().Str("equipo_id", m.EquipoID).Str("estado_equipo", applied).
			Str("de", string(prev)).Str("a", string(m.Estado)).Msg("estado de equipo actualizado por mantenimiento")
	}
	return uc.Get(ctx, m.ID)
}

// Delete borra un mantenimiento (solo administrador). No revierte el estado del equipo.
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.MaintenanceDelete); err != nil {
		return err
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Stats conteos por estado, total y costo acumulado de los completados.
func (uc *UseCase) Stats(ctx context.Context) (*dto.MaintenanceStatsResponse, error) {
	st, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	por := make(map[string]int, len(entity.MantenimientoEstados))
	for _, e := range entity.MantenimientoEstados {
		por[string(e)] = st.PorEstado[e]
	}
	return &dto.MaintenanceStatsResponse{Total: st.Total, PorEstado: por, CostoCompletado: st.CostoCompletado}, nil
}
