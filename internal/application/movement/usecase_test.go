package movement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository/repotest"
)

type env struct {
	store *repotest.Store
	uc    *UseCase
	fx    repotest.Fixture
	admin authz.Actor
	tech  authz.Actor
	tech2 authz.Actor
	user  authz.Actor
	clock time.Time
}

func actor(u entity.User) authz.Actor { return authz.Actor{ID: u.ID, Role: u.Role} }

func setup(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore()
	e := &env{
		store: store,
		uc:    New(store.Movements(), store.Equipment(), store.Catalogs(), store, zerolog.Nop()),
		fx:    store.SeedEquipment(),
		admin: actor(store.AddUser("admin", entity.RoleAdministrador)),
		tech:  actor(store.AddUser("tech", entity.RoleTecnico)),
		tech2: actor(store.AddUser("tech2", entity.RoleTecnico)),
		user:  actor(store.AddUser("user", entity.RoleUsuario)),
		clock: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	// cada llamada avanza un minuto para que el orden por fecha sea determinista
	e.uc.now = func() time.Time {
		e.clock = e.clock.Add(time.Minute)
		return e.clock
	}
	return e
}

func (e *env) location(t *testing.T) string {
	t.Helper()
	eq, ok := e.store.EquipmentByID(e.fx.Equipment.ID)
	require.True(t, ok)
	return eq.LocationID
}

func (e *env) move(t *testing.T, a authz.Actor, origen, destino string) *dto.MovementResponse {
	t.Helper()
	resp, err := e.uc.Create(context.Background(), a, dto.CreateMovementRequest{
		EquipoID: e.fx.Equipment.ID, OrigenID: origen, DestinoID: destino, Motivo: "Reasignación",
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TrasladaEquipo(t *testing.T) {
	e := setup(t)
	resp := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)

	assert.Equal(t, e.tech.ID, resp.Responsable.ID)
	assert.Equal(t, "Bodega central", resp.OrigenNombre)
	assert.Equal(t, "Laboratorio 2", resp.DestinoNombre)
	assert.Equal(t, "EQ-01", resp.Equipo.InventoryCode)
	assert.Equal(t, e.fx.LocationB.ID, e.location(t))
}

func TestCreate_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-000000000000"

	cases := []struct {
		name string
		in   dto.CreateMovementRequest
		want string
	}{
		{"equipo inexistente", dto.CreateMovementRequest{EquipoID: missing, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationB.ID, Motivo: "x"}, "equipo"},
		{"origen inexistente", dto.CreateMovementRequest{EquipoID: e.fx.Equipment.ID, OrigenID: missing, DestinoID: e.fx.LocationB.ID, Motivo: "x"}, "origen"},
		{"destino inexistente", dto.CreateMovementRequest{EquipoID: e.fx.Equipment.ID, OrigenID: e.fx.LocationA.ID, DestinoID: missing, Motivo: "x"}, "destino"},
		{"origen igual a destino", dto.CreateMovementRequest{EquipoID: e.fx.Equipment.ID, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationA.ID, Motivo: "x"}, "distintos"},
		{"motivo vacío", dto.CreateMovementRequest{EquipoID: e.fx.Equipment.ID, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationB.ID, Motivo: "  "}, "motivo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.Create(ctx, e.admin, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
	assert.Equal(t, e.fx.LocationA.ID, e.location(t))
}

func TestCreate_UsuarioProhibido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Create(context.Background(), e.user, dto.CreateMovementRequest{
		EquipoID: e.fx.Equipment.ID, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationB.ID, Motivo: "x",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_FalloAlMoverRevierteMovimiento(t *testing.T) {
	e := setup(t)
	e.store.FailOn("equipment.UpdateLocation", errors.New("conexión perdida"))

	_, err := e.uc.Create(context.Background(), e.tech, dto.CreateMovementRequest{
		EquipoID: e.fx.Equipment.ID, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationB.ID, Motivo: "x",
	})
	require.Error(t, err)

	page, err := e.uc.List(context.Background(), dto.MovementListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, e.fx.LocationA.ID, e.location(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CambioDeDestinoReubicaEquipo(t *testing.T) {
	e := setup(t)
	locC := e.store.AddCatalog(entity.CatalogLocation, "Sala de servidores")
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)

	resp, err := e.uc.Update(context.Background(), e.tech, m.ID, dto.UpdateMovementRequest{DestinoID: strPtr(locC.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Sala de servidores", resp.DestinoNombre)
	assert.Equal(t, locC.ID, e.location(t))
}

func TestUpdate_SoloMotivoNoTocaUbicacion(t *testing.T) {
	e := setup(t)
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	e.store.FailOn("equipment.UpdateLocation", errors.New("no debería llamarse"))

	resp, err := e.uc.Update(context.Background(), e.tech, m.ID, dto.UpdateMovementRequest{Motivo: strPtr("Préstamo")})
	require.NoError(t, err)
	assert.Equal(t, "Préstamo", resp.Motivo)
}

func TestUpdate_OtroTecnicoProhibidoAdminPermitido(t *testing.T) {
	e := setup(t)
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	ctx := context.Background()

	_, err := e.uc.Update(ctx, e.tech2, m.ID, dto.UpdateMovementRequest{Motivo: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.Update(ctx, e.admin, m.ID, dto.UpdateMovementRequest{Motivo: strPtr("x")})
	assert.NoError(t, err)
}

func TestUpdate_OrigenIgualDestinoRechazado(t *testing.T) {
	e := setup(t)
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)

	_, err := e.uc.Update(context.Background(), e.tech, m.ID, dto.UpdateMovementRequest{DestinoID: strPtr(e.fx.LocationA.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, e.fx.LocationB.ID, e.location(t))
}

func TestUpdate_Inexistente(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Update(context.Background(), e.admin, "no-existe", dto.UpdateMovementRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_RestauraOrigenSiSigueEnDestino(t *testing.T) {
	e := setup(t)
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)

	require.NoError(t, e.uc.Delete(context.Background(), e.admin, m.ID))
	assert.Equal(t, e.fx.LocationA.ID, e.location(t))

	_, err := e.uc.Get(context.Background(), m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_NoTocaUbicacionSiElEquipoYaSeMovio(t *testing.T) {
	e := setup(t)
	locC := e.store.AddCatalog(entity.CatalogLocation, "Sala de servidores")
	first := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	e.move(t, e.tech, e.fx.LocationB.ID, locC.ID)

	require.NoError(t, e.uc.Delete(context.Background(), e.admin, first.ID))
	assert.Equal(t, locC.ID, e.location(t))
}

func TestDelete_SoloAdmin(t *testing.T) {
	e := setup(t)
	m := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	assert.ErrorIs(t, e.uc.Delete(context.Background(), e.tech, m.ID), domain.ErrForbidden)
	assert.Equal(t, e.fx.LocationB.ID, e.location(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// List / historial
// ──────────────────────────────────────────────────────────────────────────────

func TestHistoryByEquipment_MasRecientePrimero(t *testing.T) {
	e := setup(t)
	other := e.store.AddEquipment("EQ-02", "SN-02", e.fx.Type.ID, e.fx.Activo.ID, e.fx.LocationA.ID)
	first := e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	second := e.move(t, e.tech, e.fx.LocationB.ID, e.fx.LocationA.ID)
	_, err := e.uc.Create(context.Background(), e.tech, dto.CreateMovementRequest{
		EquipoID: other.ID, OrigenID: e.fx.LocationA.ID, DestinoID: e.fx.LocationB.ID, Motivo: "x",
	})
	require.NoError(t, err)

	page, err := e.uc.HistoryByEquipment(context.Background(), e.fx.Equipment.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestHistoryByEquipment_EquipoInexistente(t *testing.T) {
	e := setup(t)
	_, err := e.uc.HistoryByEquipment(context.Background(), "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltroPorUbicacionYFecha(t *testing.T) {
	e := setup(t)
	locC := e.store.AddCatalog(entity.CatalogLocation, "Sala de servidores")
	e.move(t, e.tech, e.fx.LocationA.ID, e.fx.LocationB.ID)
	e.move(t, e.tech, e.fx.LocationB.ID, locC.ID)

	page, err := e.uc.List(context.Background(), dto.MovementListQuery{UbicacionID: locC.ID}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = e.uc.List(context.Background(), dto.MovementListQuery{Desde: "2026-03-11"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = e.uc.List(context.Background(), dto.MovementListQuery{Desde: "10/03/2026"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
