package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

var equipmentColumns = []string{
	"e.id", "e.codigo_inventario", "e.nombre", "e.marca", "e.modelo", "e.numero_serie",
	"e.fecha_adquisicion", "e.costo_adquisicion", "e.tipo_id", "e.estado_id", "e.ubicacion_id",
	"e.usuario_asignado_id", "e.created_at", "e.updated_at",
}

var equipmentDetailColumns = append(append([]string{}, equipmentColumns...),
	"t.nombre", "s.nombre", "l.nombre", "u.nombre", "u.email",
)

// catalogColumn columna de equipos que referencia cada catálogo.
var catalogColumn = map[entity.CatalogKind]string{
	entity.CatalogEquipmentType:   "tipo_id",
	entity.CatalogEquipmentStatus: "estado_id",
	entity.CatalogLocation:        "ubicacion_id",
}

// EquipmentRepo implementación del puerto EquipmentRepository sobre PostgreSQL (usable con pool o tx).
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

func equipmentDest(e *entity.Equipment) []any {
	return []any{
		&e.ID, &e.InventoryCode, &e.Name, &e.Brand, &e.Model, &e.SerialNumber,
		&e.AcquisitionDate, &e.AcquisitionCost, &e.TypeID, &e.StatusID, &e.LocationID,
		&e.AssignedUserID, &e.CreatedAt, &e.UpdatedAt,
	}
}

func scanEquipment(row pgx.Row) (*entity.Equipment, error) {
	var e entity.Equipment
	if err := row.Scan(equipmentDest(&e)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan equipo: %w", err)
	}
	return &e, nil
}

func scanEquipmentDetail(row pgx.Row) (*entity.EquipmentDetail, error) {
	var d entity.EquipmentDetail
	var userName, userEmail *string
	dest := append(equipmentDest(&d.Equipment), &d.TypeName, &d.StatusName, &d.LocationName, &userName, &userEmail)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan equipo: %w", err)
	}
	if d.AssignedUserID != nil && userName != nil {
		d.AssignedUser = &entity.UserSummary{ID: *d.AssignedUserID, Name: *userName, Email: deref(userEmail)}
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func equipmentDetailSelect(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("equipos e").
		Join("tipos_equipo t ON t.id = e.tipo_id").
		Join("estados_equipo s ON s.id = e.estado_id").
		Join("ubicaciones l ON l.id = e.ubicacion_id").
		LeftJoin("users u ON u.id = e.usuario_asignado_id")
}

// equipmentWriteErr traduce códigos y series repetidos a ErrDuplicate nombrando el campo.
func equipmentWriteErr(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: código de inventario o número de serie ya registrado", domain.ErrDuplicate)
	}
	return writeErr(err, "equipo")
}

// Create persiste un equipo nuevo.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("equipos").Columns(
		"id", "codigo_inventario", "nombre", "marca", "modelo", "numero_serie",
		"fecha_adquisicion", "costo_adquisicion", "tipo_id", "estado_id", "ubicacion_id",
		"usuario_asignado_id", "created_at", "updated_at",
	).Values(
		e.ID, e.InventoryCode, e.Name, e.Brand, e.Model, e.SerialNumber,
		e.AcquisitionDate, e.AcquisitionCost, e.TypeID, e.StatusID, e.LocationID,
		e.AssignedUserID, e.CreatedAt, e.UpdatedAt,
	))
	if err != nil {
		return equipmentWriteErr(err)
	}
	return nil
}

// GetByID obtiene un equipo por ID.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	return queryOne(ctx, r.q, psql.Select(equipmentColumns...).From("equipos e").Where(sq.Eq{"e.id": id}), scanEquipment)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *EquipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Equipment, error) {
	return queryOne(ctx, r.q, psql.Select(equipmentColumns...).From("equipos e").Where(sq.Eq{"e.id": id}).Suffix("FOR UPDATE"), scanEquipment)
}

// GetDetail obtiene el equipo con nombres de catálogo y usuario asignado.
func (r *EquipmentRepo) GetDetail(ctx context.Context, id string) (*entity.EquipmentDetail, error) {
	return queryOne(ctx, r.q, equipmentDetailSelect(equipmentDetailColumns...).Where(sq.Eq{"e.id": id}), scanEquipmentDetail)
}

// GetByInventoryCode busca por código sin distinguir mayúsculas.
func (r *EquipmentRepo) GetByInventoryCode(ctx context.Context, code string) (*entity.Equipment, error) {
	return queryOne(ctx, r.q, psql.Select(equipmentColumns...).From("equipos e").Where("lower(e.codigo_inventario) = lower(?)", code), scanEquipment)
}

// GetBySerialNumber busca por número de serie sin distinguir mayúsculas.
func (r *EquipmentRepo) GetBySerialNumber(ctx context.Context, serial string) (*entity.Equipment, error) {
	return queryOne(ctx, r.q, psql.Select(equipmentColumns...).From("equipos e").Where("lower(e.numero_serie) = lower(?)", serial), scanEquipment)
}

// Update reescribe todos los campos editables.
func (r *EquipmentRepo) Update(ctx context.Context, e *entity.Equipment) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("equipos").SetMap(map[string]any{
		"codigo_inventario":   e.InventoryCode,
		"nombre":              e.Name,
		"marca":               e.Brand,
		"modelo":              e.Model,
		"numero_serie":        e.SerialNumber,
		"fecha_adquisicion":   e.AcquisitionDate,
		"costo_adquisicion":   e.AcquisitionCost,
		"tipo_id":             e.TypeID,
		"estado_id":           e.StatusID,
		"ubicacion_id":        e.LocationID,
		"usuario_asignado_id": e.AssignedUserID,
		"updated_at":          e.UpdatedAt,
	}).Where(sq.Eq{"id": e.ID}))
	if err != nil {
		return equipmentWriteErr(err)
	}
	return affected(cmd, "equipo", e.ID)
}

// UpdateStatus cambia solo el estado (hook de mantenimiento).
func (r *EquipmentRepo) UpdateStatus(ctx context.Context, id, statusID string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("equipos").
		Set("estado_id", statusID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "estado de equipo")
	}
	return affected(cmd, "equipo", id)
}

// UpdateLocation cambia solo la ubicación (hook de movimientos).
func (r *EquipmentRepo) UpdateLocation(ctx context.Context, id, locationID string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("equipos").
		Set("ubicacion_id", locationID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return writeErr(err, "ubicación de equipo")
	}
	return affected(cmd, "equipo", id)
}

func equipmentWhere(f repository.EquipmentFilter) sq.And {
	where := sq.And{}
	if f.TypeID != "" {
		where = append(where, sq.Eq{"e.tipo_id": f.TypeID})
	}
	if f.StatusID != "" {
		where = append(where, sq.Eq{"e.estado_id": f.StatusID})
	}
	if f.LocationID != "" {
		where = append(where, sq.Eq{"e.ubicacion_id": f.LocationID})
	}
	if f.AssignedUserID != "" {
		where = append(where, sq.Eq{"e.usuario_asignado_id": f.AssignedUserID})
	}
	if f.Search != "" {
		pat := ilike(f.Search)
		where = append(where, sq.Or{
			sq.ILike{"e.codigo_inventario": pat},
			sq.ILike{"e.nombre": pat},
			sq.ILike{"e.numero_serie": pat},
		})
	}
	return where
}

// List lista equipos con filtros, del más reciente al más antiguo.
func (r *EquipmentRepo) List(ctx context.Context, f repository.EquipmentFilter, limit, offset int) ([]*entity.EquipmentDetail, int, error) {
	where := equipmentWhere(f)
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("equipos e").Where(where))
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.EquipmentDetail{}, 0, nil
	}
	b := equipmentDetailSelect(equipmentDetailColumns...).Where(where).OrderBy("e.created_at DESC", "e.id DESC")
	list, err := queryRows(ctx, r.q, page(b, limit, offset), scanEquipmentDetail)
	if err != nil {
		return nil, 0, fmt.Errorf("list equipos: %w", err)
	}
	return list, total, nil
}

// Delete borra el equipo.
func (r *EquipmentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := execBuilder(ctx, r.q, psql.Delete("equipos").Where(sq.Eq{"id": id}))
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: el equipo tiene mantenimientos o movimientos registrados", domain.ErrConflict)
	}
	if err != nil {
		return writeErr(err, "equipo")
	}
	return affected(cmd, "equipo", id)
}

// CountByCatalog cuántos equipos referencian la fila de catálogo.
func (r *EquipmentRepo) CountByCatalog(ctx context.Context, kind entity.CatalogKind, id string) (int, error) {
	col, ok := catalogColumn[kind]
	if !ok {
		return 0, fmt.Errorf("%w: catálogo %q", domain.ErrInvalidInput, kind)
	}
	return count(ctx, r.q, psql.Select("COUNT(*)").From("equipos").Where(sq.Eq{col: id}))
}
