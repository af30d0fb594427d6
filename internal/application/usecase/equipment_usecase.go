package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// EquipmentUseCase registro de equipos. Estado y ubicación también cambian vía mantenimientos y movimientos.
type EquipmentUseCase struct {
	repo     repository.EquipmentRepository
	catalogs repository.CatalogRepository
	users    repository.UserRepository
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(repo repository.EquipmentRepository, catalogs repository.CatalogRepository, users repository.UserRepository) *EquipmentUseCase {
	return &EquipmentUseCase{repo: repo, catalogs: catalogs, users: users}
}

func toEquipmentResponse(d *entity.EquipmentDetail) *dto.EquipmentResponse {
	return &dto.EquipmentResponse{
		ID:              d.ID,
		InventoryCode:   d.InventoryCode,
		Name:            d.Name,
		Brand:           d.Brand,
		Model:           d.Model,
		SerialNumber:    d.SerialNumber,
		AcquisitionDate: d.AcquisitionDate,
		AcquisitionCost: d.AcquisitionCost,
		TypeID:          d.TypeID,
		TypeName:        d.TypeName,
		StatusID:        d.StatusID,
		StatusName:      d.StatusName,
		LocationID:      d.LocationID,
		LocationName:    d.LocationName,
		AssignedUser:    dto.UserSummaryPtr(d.AssignedUser),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// checkRefs valida que cada referencia exista; BadRequest nombrando la que falla.
func (uc *EquipmentUseCase) checkRefs(ctx context.Context, e *entity.Equipment) error {
	refs := []struct {
		kind  entity.CatalogKind
		id    string
		label string
	}{
		{entity.CatalogEquipmentType, e.TypeID, "tipo de equipo"},
		{entity.CatalogEquipmentStatus, e.StatusID, "estado de equipo"},
		{entity.CatalogLocation, e.LocationID, "ubicación"},
	}
	for _, ref := range refs {
		item, err := uc.catalogs.GetByID(ctx, ref.kind, ref.id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: %s %s no existe", domain.ErrInvalidInput, ref.label, ref.id)
		}
	}
	if e.AssignedUserID != nil {
		u, err := uc.users.GetByID(ctx, *e.AssignedUserID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: usuario asignado %s no existe", domain.ErrInvalidInput, *e.AssignedUserID)
		}
	}
	return nil
}

func (uc *EquipmentUseCase) checkUnique(ctx context.Context, e *entity.Equipment) error {
	byCode, err := uc.repo.GetByInventoryCode(ctx, e.InventoryCode)
	if err != nil {
		return err
	}
	if byCode != nil && byCode.ID != e.ID {
		return fmt.Errorf("%w: el código de inventario %q ya existe", domain.ErrDuplicate, e.InventoryCode)
	}
	bySerial, err := uc.repo.GetBySerialNumber(ctx, e.SerialNumber)
	if err != nil {
		return err
	}
	if bySerial != nil && bySerial.ID != e.ID {
		return fmt.Errorf("%w: el número de serie %q ya existe", domain.ErrDuplicate, e.SerialNumber)
	}
	return nil
}

// Create registra un equipo (solo administrador).
func (uc *EquipmentUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if err := authz.Require(actor, authz.EquipmentCreate); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	eq := &entity.Equipment{
		ID:              uuid.New().String(),
		InventoryCode:   strings.TrimSpace(in.InventoryCode),
		Name:            strings.TrimSpace(in.Name),
		Brand:           strings.TrimSpace(in.Brand),
		Model:           strings.TrimSpace(in.Model),
		SerialNumber:    strings.TrimSpace(in.SerialNumber),
		AcquisitionDate: in.AcquisitionDate,
		AcquisitionCost: decimal.Zero,
		TypeID:          in.TypeID,
		StatusID:        in.StatusID,
		LocationID:      in.LocationID,
		AssignedUserID:  nonEmpty(in.AssignedUserID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.AcquisitionCost != nil {
		eq.AcquisitionCost = *in.AcquisitionCost
	}
	if err := validateEquipment(eq); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, eq); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, eq); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, eq); err != nil {
		return nil, err
	}
	return uc.Get(ctx, eq.ID)
}

func validateEquipment(e *entity.Equipment) error {
	if e.InventoryCode == "" || e.Name == "" || e.SerialNumber == "" {
		return fmt.Errorf("%w: código de inventario, nombre y número de serie son obligatorios", domain.ErrInvalidInput)
	}
	if e.AcquisitionCost.IsNegative() {
		return fmt.Errorf("%w: el costo de adquisición no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// Get obtiene un equipo con nombres de catálogo resueltos.
func (uc *EquipmentUseCase) Get(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	return toEquipmentResponse(d), nil
}

// List lista equipos con filtros y paginación.
func (uc *EquipmentUseCase) List(ctx context.Context, q dto.EquipmentListQuery, page dto.PageRequest) (*dto.Page[dto.EquipmentResponse], error) {
	page.Normalize()
	filter := repository.EquipmentFilter{
		TypeID:         q.TypeID,
		StatusID:       q.StatusID,
		LocationID:     q.LocationID,
		AssignedUserID: q.AssignedUserID,
		Search:         strings.TrimSpace(q.Search),
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.EquipmentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toEquipmentResponse(d))
	}
	return &dto.Page[dto.EquipmentResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update aplica los campos presentes (administrador o técnico).
func (uc *EquipmentUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if err := authz.Require(actor, authz.EquipmentUpdate); err != nil {
		return nil, err
	}
	eq, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	applyString(&eq.InventoryCode, in.InventoryCode)
	applyString(&eq.Name, in.Name)
	applyString(&eq.Brand, in.Brand)
	applyString(&eq.Model, in.Model)
	applyString(&eq.SerialNumber, in.SerialNumber)
	applyString(&eq.TypeID, in.TypeID)
	applyString(&eq.StatusID, in.StatusID)
	applyString(&eq.LocationID, in.LocationID)
	if in.AcquisitionDate != nil {
		eq.AcquisitionDate = in.AcquisitionDate
	}
	if in.AcquisitionCost != nil {
		eq.AcquisitionCost = *in.AcquisitionCost
	}
	if in.AssignedUserID != nil {
		eq.AssignedUserID = nonEmpty(in.AssignedUserID)
	}
	if err := validateEquipment(eq); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, eq); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, eq); err != nil {
		return nil, err
	}
	eq.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, eq); err != nil {
		return nil, err
	}
	return uc.Get(ctx, eq.ID)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// Delete borra un equipo (solo administrador). Si tiene mantenimientos o movimientos
// registrados devuelve ErrConflict: el historial no se pierde.
func (uc *EquipmentUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.EquipmentDelete); err != nil {
		return err
	}
	eq, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if eq == nil {
		return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	return uc.repo.Delete(ctx, id)
}
