package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// CatalogUseCase CRUD de tipos de equipo, estados de equipo y ubicaciones.
type CatalogUseCase struct {
	repo      repository.CatalogRepository
	equipment repository.EquipmentRepository
}

// NewCatalogUseCase construye el caso de uso. equipment se usa para bloquear borrados de filas referenciadas.
func NewCatalogUseCase(repo repository.CatalogRepository, equipment repository.EquipmentRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, equipment: equipment}
}

func catalogLabel(kind entity.CatalogKind) string {
	switch kind {
	case entity.CatalogEquipmentType:
		return "tipo de equipo"
	case entity.CatalogEquipmentStatus:
		return "estado de equipo"
	default:
		return "ubicación"
	}
}

func toCatalogResponse(c *entity.CatalogItem) dto.CatalogResponse {
	return dto.CatalogResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// List devuelve todas las filas del catálogo ordenadas por nombre.
func (uc *CatalogUseCase) List(ctx context.Context, kind entity.CatalogKind) ([]dto.CatalogResponse, error) {
	items, err := uc.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toCatalogResponse(it))
	}
	return out, nil
}

// Get obtiene una fila por ID.
func (uc *CatalogUseCase) Get(ctx context.Context, kind entity.CatalogKind, id string) (*dto.CatalogResponse, error) {
	item, err := uc.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	resp := toCatalogResponse(item)
	return &resp, nil
}

func (uc *CatalogUseCase) get(ctx context.Context, kind entity.CatalogKind, id string) (*entity.CatalogItem, error) {
	item, err := uc.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, catalogLabel(kind), id)
	}
	return item, nil
}

func (uc *CatalogUseCase) checkName(ctx context.Context, kind entity.CatalogKind, selfID, name string) error {
	existing, err := uc.repo.GetByName(ctx, kind, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un %s llamado %q", domain.ErrDuplicate, catalogLabel(kind), name)
	}
	return nil
}

// Create crea una fila. El nombre es único dentro del catálogo.
func (uc *CatalogUseCase) Create(ctx context.Context, actor authz.Actor, kind entity.CatalogKind, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := authz.Require(actor, authz.CatalogsWrite); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.checkName(ctx, kind, "", name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &entity.CatalogItem{
		ID:          uuid.New().String(),
		Kind:        kind,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := toCatalogResponse(item)
	return &resp, nil
}

// Update renombra o cambia la descripción.
func (uc *CatalogUseCase) Update(ctx context.Context, actor authz.Actor, kind entity.CatalogKind, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := authz.Require(actor, authz.CatalogsWrite); err != nil {
		return nil, err
	}
	item, err := uc.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.checkName(ctx, kind, id, name); err != nil {
		return nil, err
	}
	item.Name = name
	item.Description = strings.TrimSpace(in.Description)
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := toCatalogResponse(item)
	return &resp, nil
}

// Delete borra la fila; Conflict mientras algún equipo la referencie.
func (uc *CatalogUseCase) Delete(ctx context.Context, actor authz.Actor, kind entity.CatalogKind, id string) error {
	if err := authz.Require(actor, authz.CatalogsWrite); err != nil {
		return err
	}
	if _, err := uc.get(ctx, kind, id); err != nil {
		return err
	}
	n, err := uc.equipment.CountByCatalog(ctx, kind, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d equipo(s) usan este %s", domain.ErrConflict, n, catalogLabel(kind))
	}
	return uc.repo.Delete(ctx, kind, id)
}
