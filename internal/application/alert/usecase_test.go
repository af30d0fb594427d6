package alert

import (
	"context"
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
	user  authz.Actor
	other authz.Actor
}

func actor(u entity.User) authz.Actor { return authz.Actor{ID: u.ID, Role: u.Role} }

func setup(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore()
	e := &env{
		store: store,
		uc:    New(store.Alerts(), store.Equipment(), store.Solicitudes(), store.Maintenance(), store.Users(), zerolog.Nop()),
		fx:    store.SeedEquipment(),
		admin: actor(store.AddUser("admin", entity.RoleAdministrador)),
		tech:  actor(store.AddUser("tech", entity.RoleTecnico)),
		user:  actor(store.AddUser("user", entity.RoleUsuario)),
		other: actor(store.AddUser("other", entity.RoleUsuario)),
	}
	clock := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	e.uc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return e
}

func strPtr(s string) *string { return &s }

func (e *env) raise(t *testing.T, a authz.Actor, destinatario *string) *dto.AlertResponse {
	t.Helper()
	resp, err := e.uc.Create(context.Background(), a, dto.CreateAlertRequest{
		Prioridad: "alta", Mensaje: "Batería hinchada", EquipoID: strPtr(e.fx.Equipment.ID), DestinatarioID: destinatario,
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValoresPorDefecto(t *testing.T) {
	e := setup(t)
	resp := e.raise(t, e.tech, nil)

	assert.Equal(t, "general", resp.Tipo)
	assert.Equal(t, "activa", resp.Estado)
	assert.Equal(t, e.tech.ID, resp.OrigenID)
	assert.Nil(t, resp.FechaResolucion)
}

func TestCreate_ReferenciasConSolicitudYMantenimiento(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	sol := &entity.Solicitud{ID: "sol-1", SolicitanteID: e.user.ID, Tipo: entity.SolicitudMantenimiento, Titulo: "t", Descripcion: "d", Estado: entity.SolicitudPendiente, FechaSolicitud: now, UpdatedAt: now}
	require.NoError(t, e.store.Solicitudes().Create(ctx, sol))
	mt := &entity.Maintenance{ID: "mt-1", EquipoID: e.fx.Equipment.ID, TecnicoID: e.tech.ID, Tipo: entity.MantenimientoCorrectivo, Descripcion: "d", Fecha: now, Estado: entity.MantenimientoProgramado, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, e.store.Maintenance().Create(ctx, mt))

	resp, err := e.uc.Create(ctx, e.admin, dto.CreateAlertRequest{
		Tipo: "falla", Prioridad: "critica", Mensaje: "x", SolicitudID: strPtr("sol-1"), MantenimientoID: strPtr("mt-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "sol-1", *resp.SolicitudID)
	assert.Equal(t, "mt-1", *resp.MantenimientoID)
}

func TestCreate_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   dto.CreateAlertRequest
		want string
	}{
		{"prioridad inválida", dto.CreateAlertRequest{Prioridad: "urgente", Mensaje: "x"}, "prioridad"},
		{"tipo inválido", dto.CreateAlertRequest{Tipo: "robo", Prioridad: "baja", Mensaje: "x"}, "tipo"},
		{"mensaje vacío", dto.CreateAlertRequest{Prioridad: "baja", Mensaje: " "}, "mensaje"},
		{"equipo inexistente", dto.CreateAlertRequest{Prioridad: "baja", Mensaje: "x", EquipoID: strPtr("no-existe")}, "equipo"},
		{"solicitud inexistente", dto.CreateAlertRequest{Prioridad: "baja", Mensaje: "x", SolicitudID: strPtr("no-existe")}, "solicitud"},
		{"mantenimiento inexistente", dto.CreateAlertRequest{Prioridad: "baja", Mensaje: "x", MantenimientoID: strPtr("no-existe")}, "mantenimiento"},
		{"destinatario inexistente", dto.CreateAlertRequest{Prioridad: "baja", Mensaje: "x", DestinatarioID: strPtr("no-existe")}, "destinatario"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.Create(ctx, e.tech, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCreate_UsuarioProhibido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Create(context.Background(), e.user, dto.CreateAlertRequest{Prioridad: "baja", Mensaje: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestList_VisibilidadPorRol(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	forUser := e.raise(t, e.tech, strPtr(e.user.ID))
	e.raise(t, e.tech, strPtr(e.other.ID))
	e.raise(t, e.admin, nil)

	all, err := e.uc.List(ctx, e.admin, dto.AlertListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Pagination.Total)

	mine, err := e.uc.List(ctx, e.user, dto.AlertListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, forUser.ID, mine.Items[0].ID)

	authored, err := e.uc.List(ctx, e.tech, dto.AlertListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, authored.Items, 2)
}

func TestGet_AjenoProhibido(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, strPtr(e.user.ID))
	ctx := context.Background()

	_, err := e.uc.Get(ctx, e.user, a.ID)
	assert.NoError(t, err)
	_, err = e.uc.Get(ctx, e.other, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.uc.Get(ctx, e.admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / MarkRead / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ResueltaFijaFecha(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, nil)

	resp, err := e.uc.Update(context.Background(), e.tech, a.ID, dto.UpdateAlertRequest{Estado: strPtr("resuelta")})
	require.NoError(t, err)
	assert.Equal(t, "resuelta", resp.Estado)
	require.NotNil(t, resp.FechaResolucion)
	assert.True(t, resp.FechaResolucion.After(a.FechaGeneracion))
}

func TestUpdate_SoloAutorOAdmin(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, strPtr(e.user.ID))
	ctx := context.Background()

	_, err := e.uc.Update(ctx, e.user, a.ID, dto.UpdateAlertRequest{Prioridad: strPtr("baja")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := e.uc.Update(ctx, e.admin, a.ID, dto.UpdateAlertRequest{Prioridad: strPtr("baja")})
	require.NoError(t, err)
	assert.Equal(t, "baja", resp.Prioridad)
}

func TestUpdate_EstadoInvalido(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, nil)
	_, err := e.uc.Update(context.Background(), e.tech, a.ID, dto.UpdateAlertRequest{Estado: strPtr("cerrada")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkRead_Destinatario(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, strPtr(e.user.ID))
	ctx := context.Background()

	_, err := e.uc.MarkRead(ctx, e.other, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := e.uc.MarkRead(ctx, e.user, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "leida", resp.Estado)
}

func TestMarkRead_NoReabreResuelta(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, nil)
	ctx := context.Background()
	_, err := e.uc.Update(ctx, e.tech, a.ID, dto.UpdateAlertRequest{Estado: strPtr("resuelta")})
	require.NoError(t, err)

	resp, err := e.uc.MarkRead(ctx, e.tech, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "resuelta", resp.Estado)
}

func TestDelete_SoloAdmin(t *testing.T) {
	e := setup(t)
	a := e.raise(t, e.tech, nil)
	ctx := context.Background()

	assert.ErrorIs(t, e.uc.Delete(ctx, e.tech, a.ID), domain.ErrForbidden)
	require.NoError(t, e.uc.Delete(ctx, e.admin, a.ID))
	assert.ErrorIs(t, e.uc.Delete(ctx, e.admin, a.ID), domain.ErrNotFound)
}
