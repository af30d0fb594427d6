package repotest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// AddUser inserta un usuario activo con el rol indicado y lo devuelve.
func (s *Store) AddUser(name string, role entity.Role) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	id := uuid.New().String()
	u := entity.User{
		ID:        id,
		Name:      name,
		Username:  name + "-" + id[:8],
		Email:     name + "-" + id[:8] + "@tesa.test",
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	return u
}

// AddCatalog inserta una fila de catálogo con el nombre indicado y la devuelve.
func (s *Store) AddCatalog(kind entity.CatalogKind, name string) entity.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	item := entity.CatalogItem{ID: uuid.New().String(), Kind: kind, Name: name, CreatedAt: now, UpdatedAt: now}
	s.catalogs[kind][item.ID] = item
	return item
}

// Fixture catálogos base y un equipo listo para usar en tests.
type Fixture struct {
	Type            entity.CatalogItem
	Activo          entity.CatalogItem
	EnMantenimiento entity.CatalogItem
	LocationA       entity.CatalogItem
	LocationB       entity.CatalogItem
	Equipment       entity.Equipment
}

// SeedEquipment crea los estados "Activo" y "En Mantenimiento", dos ubicaciones, un tipo
// y el equipo EQ-01 / SN-01 en la ubicación A.
func (s *Store) SeedEquipment() Fixture {
	f := Fixture{
		Type:            s.AddCatalog(entity.CatalogEquipmentType, "Portátil"),
		Activo:          s.AddCatalog(entity.CatalogEquipmentStatus, entity.EquipmentStatusActivo),
		EnMantenimiento: s.AddCatalog(entity.CatalogEquipmentStatus, entity.EquipmentStatusEnMantenimiento),
		LocationA:       s.AddCatalog(entity.CatalogLocation, "Bodega central"),
		LocationB:       s.AddCatalog(entity.CatalogLocation, "Laboratorio 2"),
	}
	f.Equipment = s.AddEquipment("EQ-01", "SN-01", f.Type.ID, f.Activo.ID, f.LocationA.ID)
	return f
}

// AddEquipment inserta un equipo con las referencias dadas.
func (s *Store) AddEquipment(code, serial, typeID, statusID, locationID string) entity.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	e := entity.Equipment{
		ID:              uuid.New().String(),
		InventoryCode:   code,
		Name:            "Equipo " + code,
		SerialNumber:    serial,
		AcquisitionCost: decimal.Zero,
		TypeID:          typeID,
		StatusID:        statusID,
		LocationID:      locationID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.equipment[e.ID] = e
	return e
}

// EquipmentByID lectura directa para aserciones.
func (s *Store) EquipmentByID(id string) (entity.Equipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[id]
	return e, ok
}

// CountAttachments número de filas de adjuntos.
func (s *Store) CountAttachments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attachments)
}
