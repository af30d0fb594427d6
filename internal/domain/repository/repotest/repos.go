package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) checkUnique(u *entity.User) error {
	for _, other := range r.s.users {
		if other.ID == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
		if strings.EqualFold(other.Username, u.Username) {
			return fmt.Errorf("%w: nombre de usuario %q", domain.ErrDuplicate, u.Username)
		}
	}
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return notFound("usuario", u.ID)
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) List(_ context.Context, f repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	search := strings.ToLower(f.Search)
	for _, u := range r.s.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email+" "+u.Username), search) {
			continue
		}
		out = append(out, ptr(u))
	}
	sortDesc(out, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() }, func(u *entity.User) string { return u.ID })
	return paginate(out, limit, offset), len(out), nil
}

// ── Catalogs ─────────────────────────────────────────────────────────────────

type catalogRepo struct{ s *Store }

func (r *catalogRepo) checkUnique(item *entity.CatalogItem) error {
	for _, other := range r.s.catalogs[item.Kind] {
		if other.ID != item.ID && strings.EqualFold(other.Name, item.Name) {
			return fmt.Errorf("%w: nombre %q", domain.ErrDuplicate, item.Name)
		}
	}
	return nil
}

func (r *catalogRepo) Create(_ context.Context, item *entity.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(item); err != nil {
		return err
	}
	r.s.catalogs[item.Kind][item.ID] = *item
	return nil
}

func (r *catalogRepo) GetByID(_ context.Context, kind entity.CatalogKind, id string) (*entity.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.catalogs[kind][id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *catalogRepo) GetByName(_ context.Context, kind entity.CatalogKind, name string) (*entity.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.catalogs[kind] {
		if strings.EqualFold(item.Name, name) {
			return &item, nil
		}
	}
	return nil, nil
}

func (r *catalogRepo) Update(_ context.Context, item *entity.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.catalogs[item.Kind][item.ID]; !ok {
		return notFound(string(item.Kind), item.ID)
	}
	if err := r.checkUnique(item); err != nil {
		return err
	}
	r.s.catalogs[item.Kind][item.ID] = *item
	return nil
}

func (r *catalogRepo) List(_ context.Context, kind entity.CatalogKind) ([]*entity.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.CatalogItem{}
	for _, item := range r.s.catalogs[kind] {
		out = append(out, ptr(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogRepo) Delete(_ context.Context, kind entity.CatalogKind, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.catalogs[kind][id]; !ok {
		return notFound(string(kind), id)
	}
	delete(r.s.catalogs[kind], id)
	return nil
}

// ── Equipment ────────────────────────────────────────────────────────────────

type equipmentRepo struct{ s *Store }

func (r *equipmentRepo) checkUnique(e *entity.Equipment) error {
	for _, other := range r.s.equipment {
		if other.ID == e.ID {
			continue
		}
		if other.InventoryCode == e.InventoryCode {
			return fmt.Errorf("%w: código de inventario %q", domain.ErrDuplicate, e.InventoryCode)
		}
		if other.SerialNumber == e.SerialNumber {
			return fmt.Errorf("%w: número de serie %q", domain.ErrDuplicate, e.SerialNumber)
		}
	}
	return nil
}

func (r *equipmentRepo) Create(_ context.Context, e *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(e); err != nil {
		return err
	}
	r.s.equipment[e.ID] = *e
	return nil
}

func (r *equipmentRepo) GetByID(_ context.Context, id string) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.equipment[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *equipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Equipment, error) {
	return r.GetByID(ctx, id)
}

func (r *equipmentRepo) detail(e entity.Equipment) *entity.EquipmentDetail {
	return &entity.EquipmentDetail{
		Equipment:    e,
		TypeName:     r.s.catalogName(entity.CatalogEquipmentType, e.TypeID),
		StatusName:   r.s.catalogName(entity.CatalogEquipmentStatus, e.StatusID),
		LocationName: r.s.catalogName(entity.CatalogLocation, e.LocationID),
		AssignedUser: r.s.userSummaryPtr(e.AssignedUserID),
	}
}

func (r *equipmentRepo) GetDetail(_ context.Context, id string) (*entity.EquipmentDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.equipment[id]
	if !ok {
		return nil, nil
	}
	return r.detail(e), nil
}

func (r *equipmentRepo) GetByInventoryCode(_ context.Context, code string) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.equipment {
		if e.InventoryCode == code {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *equipmentRepo) GetBySerialNumber(_ context.Context, serial string) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.equipment {
		if e.SerialNumber == serial {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *equipmentRepo) Update(_ context.Context, e *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[e.ID]; !ok {
		return notFound("equipo", e.ID)
	}
	if err := r.checkUnique(e); err != nil {
		return err
	}
	r.s.equipment[e.ID] = *e
	return nil
}

func (r *equipmentRepo) UpdateStatus(_ context.Context, id, statusID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("equipment.UpdateStatus"); err != nil {
		return err
	}
	e, ok := r.s.equipment[id]
	if !ok {
		return notFound("equipo", id)
	}
	e.StatusID = statusID
	r.s.equipment[id] = e
	return nil
}

func (r *equipmentRepo) UpdateLocation(_ context.Context, id, locationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("equipment.UpdateLocation"); err != nil {
		return err
	}
	e, ok := r.s.equipment[id]
	if !ok {
		return notFound("equipo", id)
	}
	e.LocationID = locationID
	r.s.equipment[id] = e
	return nil
}

func (r *equipmentRepo) List(_ context.Context, f repository.EquipmentFilter, limit, offset int) ([]*entity.EquipmentDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.EquipmentDetail
	search := strings.ToLower(f.Search)
	for _, e := range r.s.equipment {
		switch {
		case f.TypeID != "" && e.TypeID != f.TypeID,
			f.StatusID != "" && e.StatusID != f.StatusID,
			f.LocationID != "" && e.LocationID != f.LocationID,
			f.AssignedUserID != "" && (e.AssignedUserID == nil || *e.AssignedUserID != f.AssignedUserID):
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.InventoryCode+" "+e.Name+" "+e.SerialNumber), search) {
			continue
		}
		out = append(out, r.detail(e))
	}
	sortDesc(out, func(d *entity.EquipmentDetail) int64 { return d.CreatedAt.UnixNano() }, func(d *entity.EquipmentDetail) string { return d.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *equipmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[id]; !ok {
		return notFound("equipo", id)
	}
	// ON DELETE RESTRICT desde mantenimientos y movimientos.
	for _, m := range r.s.maintenance {
		if m.EquipoID == id {
			return fmt.Errorf("%w: el equipo tiene mantenimientos o movimientos registrados", domain.ErrConflict)
		}
	}
	for _, m := range r.s.movements {
		if m.EquipoID == id {
			return fmt.Errorf("%w: el equipo tiene mantenimientos o movimientos registrados", domain.ErrConflict)
		}
	}
	// ON DELETE SET NULL desde solicitudes y alertas.
	for k, s := range r.s.solicitudes {
		if s.EquipoID != nil && *s.EquipoID == id {
			s.EquipoID = nil
			r.s.solicitudes[k] = s
		}
	}
	for k, a := range r.s.alerts {
		if a.EquipoID != nil && *a.EquipoID == id {
			a.EquipoID = nil
			r.s.alerts[k] = a
		}
	}
	delete(r.s.equipment, id)
	return nil
}

func (r *equipmentRepo) CountByCatalog(_ context.Context, kind entity.CatalogKind, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.equipment {
		var ref string
		switch kind {
		case entity.CatalogEquipmentType:
			ref = e.TypeID
		case entity.CatalogEquipmentStatus:
			ref = e.StatusID
		case entity.CatalogLocation:
			ref = e.LocationID
		}
		if ref == id {
			n++
		}
	}
	return n, nil
}

// ── Solicitudes ──────────────────────────────────────────────────────────────

type solicitudRepo struct{ s *Store }

func (r *solicitudRepo) Create(_ context.Context, sol *entity.Solicitud) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.solicitudes[sol.ID] = *sol
	return nil
}

func (r *solicitudRepo) GetByID(_ context.Context, id string) (*entity.Solicitud, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sol, ok := r.s.solicitudes[id]
	if !ok {
		return nil, nil
	}
	return &sol, nil
}

func (r *solicitudRepo) detail(sol entity.Solicitud) *entity.SolicitudDetail {
	d := &entity.SolicitudDetail{
		Solicitud:   sol,
		Solicitante: r.s.userSummary(sol.SolicitanteID),
		Resolver:    r.s.userSummaryPtr(sol.ResolverID),
	}
	if sol.EquipoID != nil {
		d.Equipo = ptr(r.s.equipmentSummary(*sol.EquipoID))
	}
	return d
}

func (r *solicitudRepo) GetDetail(_ context.Context, id string) (*entity.SolicitudDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sol, ok := r.s.solicitudes[id]
	if !ok {
		return nil, nil
	}
	return r.detail(sol), nil
}

func (r *solicitudRepo) Update(_ context.Context, sol *entity.Solicitud) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[sol.ID]; !ok {
		return notFound("solicitud", sol.ID)
	}
	r.s.solicitudes[sol.ID] = *sol
	return nil
}

func (r *solicitudRepo) List(_ context.Context, f repository.SolicitudFilter, limit, offset int) ([]*entity.SolicitudDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SolicitudDetail
	for _, sol := range r.s.solicitudes {
		switch {
		case f.SolicitanteID != "" && sol.SolicitanteID != f.SolicitanteID,
			f.EquipoID != "" && (sol.EquipoID == nil || *sol.EquipoID != f.EquipoID),
			f.Estado != "" && sol.Estado != f.Estado,
			f.Tipo != "" && sol.Tipo != f.Tipo,
			f.Desde != nil && sol.FechaSolicitud.Before(*f.Desde),
			f.Hasta != nil && sol.FechaSolicitud.After(*f.Hasta):
			continue
		}
		out = append(out, r.detail(sol))
	}
	sortDesc(out, func(d *entity.SolicitudDetail) int64 { return d.FechaSolicitud.UnixNano() }, func(d *entity.SolicitudDetail) string { return d.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *solicitudRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[id]; !ok {
		return notFound("solicitud", id)
	}
	delete(r.s.solicitudes, id)
	return nil
}

// ── Attachments ──────────────────────────────────────────────────────────────

type attachmentRepo struct{ s *Store }

func (r *attachmentRepo) Create(_ context.Context, a *entity.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attachments.Create"); err != nil {
		return err
	}
	r.s.attachments[a.ID] = *a
	return nil
}

func (r *attachmentRepo) GetByID(_ context.Context, id string) (*entity.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attachments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *attachmentRepo) ListBySolicitud(_ context.Context, solicitudID string) ([]*entity.AttachmentDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.AttachmentDetail{}
	for _, a := range r.s.attachments {
		if a.SolicitudID == solicitudID {
			out = append(out, &entity.AttachmentDetail{Attachment: a, Uploader: r.s.userSummary(a.UploadedBy)})
		}
	}
	sortDesc(out, func(d *entity.AttachmentDetail) int64 { return d.UploadedAt.UnixNano() }, func(d *entity.AttachmentDetail) string { return d.ID })
	return out, nil
}

func (r *attachmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attachments[id]; !ok {
		return notFound("adjunto", id)
	}
	delete(r.s.attachments, id)
	return nil
}

func (r *attachmentRepo) DeleteBySolicitud(_ context.Context, solicitudID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.attachments {
		if a.SolicitudID == solicitudID {
			delete(r.s.attachments, id)
		}
	}
	return nil
}

// ── Maintenance ──────────────────────────────────────────────────────────────

type maintenanceRepo struct{ s *Store }

func (r *maintenanceRepo) Create(_ context.Context, m *entity.Maintenance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("maintenance.Create"); err != nil {
		return err
	}
	r.s.maintenance[m.ID] = *m
	return nil
}

func (r *maintenanceRepo) GetByID(_ context.Context, id string) (*entity.Maintenance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.maintenance[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *maintenanceRepo) detail(m entity.Maintenance) *entity.MaintenanceDetail {
	return &entity.MaintenanceDetail{
		Maintenance: m,
		Equipo:      r.s.equipmentSummary(m.EquipoID),
		Tecnico:     r.s.userSummary(m.TecnicoID),
	}
}

func (r *maintenanceRepo) GetDetail(_ context.Context, id string) (*entity.MaintenanceDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.maintenance[id]
	if !ok {
		return nil, nil
	}
	return r.detail(m), nil
}

func (r *maintenanceRepo) Update(_ context.Context, m *entity.Maintenance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.maintenance[m.ID]; !ok {
		return notFound("mantenimiento", m.ID)
	}
	r.s.maintenance[m.ID] = *m
	return nil
}

func (r *maintenanceRepo) List(_ context.Context, f repository.MaintenanceFilter, limit, offset int) ([]*entity.MaintenanceDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MaintenanceDetail
	for _, m := range r.s.maintenance {
		switch {
		case f.EquipoID != "" && m.EquipoID != f.EquipoID,
			f.TecnicoID != "" && m.TecnicoID != f.TecnicoID,
			f.Estado != "" && m.Estado != f.Estado,
			f.Tipo != "" && m.Tipo != f.Tipo,
			f.Desde != nil && m.Fecha.Before(*f.Desde),
			f.Hasta != nil && m.Fecha.After(*f.Hasta):
			continue
		}
		out = append(out, r.detail(m))
	}
	sortDesc(out, func(d *entity.MaintenanceDetail) int64 { return d.Fecha.UnixNano() }, func(d *entity.MaintenanceDetail) string { return d.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *maintenanceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.maintenance[id]; !ok {
		return notFound("mantenimiento", id)
	}
	delete(r.s.maintenance, id)
	return nil
}

func (r *maintenanceRepo) Stats(_ context.Context) (*entity.MaintenanceStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &entity.MaintenanceStats{PorEstado: map[entity.MantenimientoEstado]int{}, CostoCompletado: decimal.Zero}
	for _, e := range entity.MantenimientoEstados {
		st.PorEstado[e] = 0
	}
	for _, m := range r.s.maintenance {
		st.Total++
		st.PorEstado[m.Estado]++
		if m.Estado == entity.MantenimientoCompletado {
			st.CostoCompletado = st.CostoCompletado.Add(m.Costo)
		}
	}
	return st, nil
}

// ── Movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.Create"); err != nil {
		return err
	}
	r.s.movements[m.ID] = *m
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) detail(m entity.Movement) *entity.MovementDetail {
	return &entity.MovementDetail{
		Movement:      m,
		Equipo:        r.s.equipmentSummary(m.EquipoID),
		Responsable:   r.s.userSummary(m.ResponsableID),
		OrigenNombre:  r.s.catalogName(entity.CatalogLocation, m.OrigenID),
		DestinoNombre: r.s.catalogName(entity.CatalogLocation, m.DestinoID),
	}
}

func (r *movementRepo) GetDetail(_ context.Context, id string) (*entity.MovementDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return r.detail(m), nil
}

func (r *movementRepo) Update(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[m.ID]; !ok {
		return notFound("movimiento", m.ID)
	}
	r.s.movements[m.ID] = *m
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.MovementDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MovementDetail
	for _, m := range r.s.movements {
		switch {
		case f.EquipoID != "" && m.EquipoID != f.EquipoID,
			f.ResponsableID != "" && m.ResponsableID != f.ResponsableID,
			f.UbicacionID != "" && m.OrigenID != f.UbicacionID && m.DestinoID != f.UbicacionID,
			f.Desde != nil && m.Fecha.Before(*f.Desde),
			f.Hasta != nil && m.Fecha.After(*f.Hasta):
			continue
		}
		out = append(out, r.detail(m))
	}
	sortDesc(out, func(d *entity.MovementDetail) int64 { return d.Fecha.UnixNano() }, func(d *entity.MovementDetail) string { return d.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[id]; !ok {
		return notFound("movimiento", id)
	}
	delete(r.s.movements, id)
	return nil
}

// ── Alerts ───────────────────────────────────────────────────────────────────

type alertRepo struct{ s *Store }

func (r *alertRepo) Create(_ context.Context, a *entity.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.alerts[a.ID] = *a
	return nil
}

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *alertRepo) Update(_ context.Context, a *entity.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[a.ID]; !ok {
		return notFound("alerta", a.ID)
	}
	r.s.alerts[a.ID] = *a
	return nil
}

func (r *alertRepo) List(_ context.Context, f repository.AlertFilter, limit, offset int) ([]*entity.Alert, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Alert
	for _, a := range r.s.alerts {
		if f.VisibleTo != "" && a.OrigenID != f.VisibleTo && (a.DestinatarioID == nil || *a.DestinatarioID != f.VisibleTo) {
			continue
		}
		switch {
		case f.Estado != "" && a.Estado != f.Estado,
			f.Prioridad != "" && a.Prioridad != f.Prioridad,
			f.Tipo != "" && a.Tipo != f.Tipo,
			f.EquipoID != "" && (a.EquipoID == nil || *a.EquipoID != f.EquipoID):
			continue
		}
		out = append(out, ptr(a))
	}
	sortDesc(out, func(a *entity.Alert) int64 { return a.FechaGeneracion.UnixNano() }, func(a *entity.Alert) string { return a.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *alertRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[id]; !ok {
		return notFound("alerta", id)
	}
	delete(r.s.alerts, id)
	return nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

type reportRepo struct{ s *Store }

func (r *reportRepo) Create(_ context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reports[rep.ID] = *rep
	return nil
}

func (r *reportRepo) GetByID(_ context.Context, id string) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r *reportRepo) Update(_ context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[rep.ID]; !ok {
		return notFound("reporte", rep.ID)
	}
	r.s.reports[rep.ID] = *rep
	return nil
}

func (r *reportRepo) List(_ context.Context, solicitanteID string, limit, offset int) ([]*entity.Report, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Report
	for _, rep := range r.s.reports {
		if solicitanteID != "" && rep.SolicitanteID != solicitanteID {
			continue
		}
		out = append(out, ptr(rep))
	}
	sortDesc(out, func(x *entity.Report) int64 { return x.CreatedAt.UnixNano() }, func(x *entity.Report) string { return x.ID })
	return paginate(out, limit, offset), len(out), nil
}

func (r *reportRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return notFound("reporte", id)
	}
	delete(r.s.reports, id)
	return nil
}
