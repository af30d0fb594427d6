// Package repotest ofrece implementaciones en memoria de los puertos de persistencia y de
// almacenamiento para los tests de casos de uso.
package repotest

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// Store guarda todas las entidades en mapas. Los repositorios devuelven copias, así que
// mutar un resultado no altera el almacén hasta llamar a Update.
type Store struct {
	mu sync.Mutex

	users       map[string]entity.User
	catalogs    map[entity.CatalogKind]map[string]entity.CatalogItem
	equipment   map[string]entity.Equipment
	solicitudes map[string]entity.Solicitud
	attachments map[string]entity.Attachment
	maintenance map[string]entity.Maintenance
	movements   map[string]entity.Movement
	alerts      map[string]entity.Alert
	reports     map[string]entity.Report

	failures map[string]error
}

var _ repository.TxRunner = (*Store)(nil)

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		users: map[string]entity.User{},
		catalogs: map[entity.CatalogKind]map[string]entity.CatalogItem{
			entity.CatalogEquipmentType:   {},
			entity.CatalogEquipmentStatus: {},
			entity.CatalogLocation:        {},
		},
		equipment:   map[string]entity.Equipment{},
		solicitudes: map[string]entity.Solicitud{},
		attachments: map[string]entity.Attachment{},
		maintenance: map[string]entity.Maintenance{},
		movements:   map[string]entity.Movement{},
		alerts:      map[string]entity.Alert{},
		reports:     map[string]entity.Report{},
		failures:    map[string]error{},
	}
}

// FailOn hace que la operación op (p. ej. "equipment.UpdateLocation") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func (s *Store) Users() repository.UserRepository              { return &userRepo{s} }
func (s *Store) Catalogs() repository.CatalogRepository        { return &catalogRepo{s} }
func (s *Store) Equipment() repository.EquipmentRepository     { return &equipmentRepo{s} }
func (s *Store) Solicitudes() repository.SolicitudRepository   { return &solicitudRepo{s} }
func (s *Store) Attachments() repository.AttachmentRepository  { return &attachmentRepo{s} }
func (s *Store) Maintenance() repository.MaintenanceRepository { return &maintenanceRepo{s} }
func (s *Store) Movements() repository.MovementRepository      { return &movementRepo{s} }
func (s *Store) Alerts() repository.AlertRepository            { return &alertRepo{s} }
func (s *Store) Reports() repository.ReportRepository          { return &reportRepo{s} }

// Run emula una transacción: si fn falla, el almacén vuelve al estado previo.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	snap := s.snapshot()
	err := fn(repository.TxRepos{
		Equipment:   s.Equipment(),
		Catalogs:    s.Catalogs(),
		Solicitudes: s.Solicitudes(),
		Attachments: s.Attachments(),
		Maintenance: s.Maintenance(),
		Movements:   s.Movements(),
	})
	if err != nil {
		s.restore(snap)
	}
	return err
}

type snapshot struct {
	catalogs    map[entity.CatalogKind]map[string]entity.CatalogItem
	equipment   map[string]entity.Equipment
	solicitudes map[string]entity.Solicitud
	attachments map[string]entity.Attachment
	maintenance map[string]entity.Maintenance
	movements   map[string]entity.Movement
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := map[entity.CatalogKind]map[string]entity.CatalogItem{}
	for k, m := range s.catalogs {
		cats[k] = copyMap(m)
	}
	return snapshot{
		catalogs:    cats,
		equipment:   copyMap(s.equipment),
		solicitudes: copyMap(s.solicitudes),
		attachments: copyMap(s.attachments),
		maintenance: copyMap(s.maintenance),
		movements:   copyMap(s.movements),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs = snap.catalogs
	s.equipment = snap.equipment
	s.solicitudes = snap.solicitudes
	s.attachments = snap.attachments
	s.maintenance = snap.maintenance
	s.movements = snap.movements
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func sortDesc[T any](items []T, key func(T) int64, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := key(items[i]), key(items[j])
		if ki != kj {
			return ki > kj
		}
		return id(items[i]) > id(items[j])
	})
}

func (s *Store) userSummary(id string) entity.UserSummary {
	u := s.users[id]
	return entity.UserSummary{ID: id, Name: u.Name, Email: u.Email}
}

func (s *Store) userSummaryPtr(id *string) *entity.UserSummary {
	if id == nil {
		return nil
	}
	sum := s.userSummary(*id)
	return &sum
}

func (s *Store) equipmentSummary(id string) entity.EquipmentSummary {
	e := s.equipment[id]
	return entity.EquipmentSummary{ID: id, InventoryCode: e.InventoryCode, Name: e.Name}
}

func (s *Store) catalogName(kind entity.CatalogKind, id string) string {
	return s.catalogs[kind][id].Name
}

func ptr[T any](v T) *T { return &v }
