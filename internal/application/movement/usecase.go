// Package movement implementa el libro de traslados de equipos entre ubicaciones.
package movement

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
	"github.com/jhoicas/tesa-inventario/internal/domain/lifecycle"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UseCase casos de uso de movimientos. Toda escritura que toca también la ubicación del
// equipo corre en una sola transacción.
type UseCase struct {
	repo      repository.MovementRepository
	equipment repository.EquipmentRepository
	catalogs  repository.CatalogRepository
	tx        repository.TxRunner
	log       zerolog.Logger
	now       func() time.Time
}

// New construye el caso de uso.
func New(repo repository.MovementRepository, equipment repository.EquipmentRepository, catalogs repository.CatalogRepository, tx repository.TxRunner, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, equipment: equipment, catalogs: catalogs, tx: tx, log: log, now: time.Now}
}

func toResponse(d *entity.MovementDetail) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            d.ID,
		Equipo:        dto.EquipmentSummaryFrom(d.Equipo),
		Responsable:   dto.UserSummaryFrom(d.Responsable),
		OrigenID:      d.OrigenID,
		OrigenNombre:  d.OrigenNombre,
		DestinoID:     d.DestinoID,
		DestinoNombre: d.DestinoNombre,
		Motivo:        d.Motivo,
		Observaciones: d.Observaciones,
		Fecha:         d.Fecha,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (uc *UseCase) checkLocation(ctx context.Context, id, label string) error {
	loc, err := uc.catalogs.GetByID(ctx, entity.CatalogLocation, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%w: la ubicación de %s %s no existe", domain.ErrInvalidInput, label, id)
	}
	return nil
}

// Create registra un traslado (administrador o técnico). El responsable es quien llama y
// la ubicación del equipo pasa a ser el destino en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := authz.Require(actor, authz.MovementsCreate); err != nil {
		return nil, err
	}
	motivo := strings.TrimSpace(in.Motivo)
	if motivo == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidInput)
	}
	eq, err := uc.equipment.GetByID(ctx, in.EquipoID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: el equipo %s no existe", domain.ErrInvalidInput, in.EquipoID)
	}
	if err := uc.checkLocation(ctx, in.OrigenID, "origen"); err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, in.DestinoID, "destino"); err != nil {
		return nil, err
	}
	if in.OrigenID == in.DestinoID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	now := uc.now().UTC()
	m := &entity.Movement{
		ID:            uuid.New().String(),
		EquipoID:      eq.ID,
		ResponsableID: actor.ID,
		OrigenID:      in.OrigenID,
		DestinoID:     in.DestinoID,
		Motivo:        motivo,
		Observaciones: strings.TrimSpace(in.Observaciones),
		Fecha:         now,
		UpdatedAt:     now,
	}
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		if _, err := tx.Equipment.GetForUpdate(ctx, m.EquipoID); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, m); err != nil {
			return err
		}
		return tx.Equipment.UpdateLocation(ctx, m.EquipoID, m.DestinoID)
	})
	if err != nil {
		return nil, err
	}
	if eq.LocationID != m.OrigenID {
		uc.log.Warn().Str("equipo_id", eq.ID).Str("ubicacion_actual", eq.LocationID).Str("origen", m.OrigenID).
			Msg("el origen del movimiento no coincide con la ubicación registrada del equipo")
	}
	return uc.Get(ctx, m.ID)
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// Get obtiene un movimiento con equipo, responsable y nombres de ubicación.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return toResponse(d), nil
}

// List lista movimientos con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, q dto.MovementListQuery, page dto.PageRequest) (*dto.Page[dto.MovementResponse], error) {
	page.Normalize()
	desde, hasta, err := dto.ParseDateRange(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{
		EquipoID:      q.EquipoID,
		ResponsableID: q.ResponsableID,
		UbicacionID:   q.UbicacionID,
		Desde:         desde,
		Hasta:         hasta,
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toResponse(d))
	}
	return &dto.Page[dto.MovementResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// HistoryByEquipment historial de traslados de un equipo, del más reciente al más antiguo.
func (uc *UseCase) HistoryByEquipment(ctx context.Context, equipoID string, page dto.PageRequest) (*dto.Page[dto.MovementResponse], error) {
	eq, err := uc.equipment.GetByID(ctx, equipoID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: equipo %s", domain.ErrNotFound, equipoID)
	}
	return uc.List(ctx, dto.MovementListQuery{EquipoID: equipoID}, page)
}

// Update edita un movimiento (administrador o responsable). Si cambia el destino la
// ubicación del equipo se vuelve a aplicar en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, m.ResponsableID, authz.MovementsUpdateAny); err != nil {
		return nil, err
	}
	prev := *m
	if in.OrigenID != nil && *in.OrigenID != m.OrigenID {
		if err := uc.checkLocation(ctx, *in.OrigenID, "origen"); err != nil {
			return nil, err
		}
		m.OrigenID = *in.OrigenID
	}
	if in.DestinoID != nil && *in.DestinoID != m.DestinoID {
		if err := uc.checkLocation(ctx, *in.DestinoID, "destino"); err != nil {
			return nil, err
		}
		m.DestinoID = *in.DestinoID
	}
	if m.OrigenID == m.DestinoID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	if in.Motivo != nil {
		if m.Motivo = strings.TrimSpace(*in.Motivo); m.Motivo == "" {
			return nil, fmt.Errorf("%w: el motivo no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.Observaciones != nil {
		m.Observaciones = strings.TrimSpace(*in.Observaciones)
	}
	m.UpdatedAt = uc.now().UTC()

	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		if err := tx.Movements.Update(ctx, m); err != nil {
			return err
		}
		loc, ok := lifecycle.LocationAfterMovementUpdate(&prev, m)
		if !ok {
			return nil
		}
		if _, err := tx.Equipment.GetForUpdate(ctx, m.EquipoID); err != nil {
			return err
		}
		return tx.Equipment.UpdateLocation(ctx, m.EquipoID, loc)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, m.ID)
}

// Delete borra un movimiento (solo administrador). Si el equipo sigue en el destino de este
// movimiento, vuelve al origen en la misma transacción; si ya se movió, no se toca.
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.MovementsDelete); err != nil {
		return err
	}
	m, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	var restored string
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		eq, err := tx.Equipment.GetForUpdate(ctx, m.EquipoID)
		if err != nil {
			return err
		}
		if err := tx.Movements.Delete(ctx, m.ID); err != nil {
			return err
		}
		if eq == nil {
			return nil
		}
		loc, ok := lifecycle.LocationAfterMovementDelete(m, eq.LocationID)
		if !ok {
			return nil
		}
		restored = loc
		return tx.Equipment.UpdateLocation(ctx, m.EquipoID, loc)
	})
	if err != nil {
		return err
	}
	if restored != "" {
		uc.log.Info().Str("equipo_id", m.EquipoID).Str("ubicacion", restored).Msg("ubicación restaurada al borrar movimiento")
	}
	return nil
}
