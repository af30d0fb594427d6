package solicitud

import (
	"context"
	"strings"
	"sync"
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
	store   *repotest.Store
	storage *repotest.Storage
	uc      *UseCase
	fx      repotest.Fixture
	admin   authz.Actor
	owner   authz.Actor
	other   authz.Actor
}

func setup(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore()
	storage := repotest.NewStorage()
	fx := store.SeedEquipment()
	admin := store.AddUser("admin", entity.RoleAdministrador)
	owner := store.AddUser("owner", entity.RoleUsuario)
	other := store.AddUser("other", entity.RoleTecnico)
	return &env{
		store:   store,
		storage: storage,
		uc:      New(store.Solicitudes(), store.Equipment(), store, storage, zerolog.Nop()),
		fx:      fx,
		admin:   authz.Actor{ID: admin.ID, Role: admin.Role},
		owner:   authz.Actor{ID: owner.ID, Role: owner.Role},
		other:   authz.Actor{ID: other.ID, Role: other.Role},
	}
}

func (e *env) create(t *testing.T, actor authz.Actor) *dto.SolicitudResponse {
	t.Helper()
	resp, err := e.uc.Create(context.Background(), actor, dto.CreateSolicitudRequest{
		Tipo: "mantenimiento", Titulo: "No enciende", Descripcion: "El equipo no enciende", EquipoID: &e.fx.Equipment.ID,
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PendienteConResumenes(t *testing.T) {
	e := setup(t)
	resp := e.create(t, e.owner)

	assert.Equal(t, "pendiente", resp.Estado)
	assert.Equal(t, e.owner.ID, resp.Solicitante.ID)
	require.NotNil(t, resp.Equipo)
	assert.Equal(t, "EQ-01", resp.Equipo.InventoryCode)
	assert.Nil(t, resp.Resolver)
	assert.Nil(t, resp.FechaRespuesta)
	assert.WithinDuration(t, time.Now(), resp.FechaSolicitud, 5*time.Second)
}

func TestCreate_SinEquipoParaNuevoEquipo(t *testing.T) {
	e := setup(t)
	resp, err := e.uc.Create(context.Background(), e.owner, dto.CreateSolicitudRequest{
		Tipo: "nuevo_equipo", Titulo: "Necesito portátil", Descripcion: "Para docencia",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Equipo)
}

func TestCreate_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	missing := "5d1c0a7e-1111-4111-8111-111111111111"

	cases := []struct {
		name string
		in   dto.CreateSolicitudRequest
	}{
		{"tipo alterno rechazado", dto.CreateSolicitudRequest{Tipo: "prestamo", Titulo: "t", Descripcion: "d"}},
		{"título vacío", dto.CreateSolicitudRequest{Tipo: "retiro", Titulo: "  ", Descripcion: "d"}},
		{"descripción vacía", dto.CreateSolicitudRequest{Tipo: "retiro", Titulo: "t"}},
		{"equipo inexistente", dto.CreateSolicitudRequest{Tipo: "retiro", Titulo: "t", Descripcion: "d", EquipoID: &missing}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.Create(ctx, e.owner, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	page, err := e.uc.List(ctx, e.admin, dto.SolicitudListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestList_NoAdminSoloVeLasSuyas(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.create(t, e.owner)
	e.create(t, e.owner)
	e.create(t, e.other)

	page, err := e.uc.List(ctx, e.owner, dto.SolicitudListQuery{SolicitanteID: e.other.ID}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)
	for _, s := range page.Items {
		assert.Equal(t, e.owner.ID, s.Solicitante.ID)
	}

	page, err = e.uc.List(ctx, e.admin, dto.SolicitudListQuery{SolicitanteID: e.other.ID}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Total)

	page, err = e.uc.List(ctx, e.admin, dto.SolicitudListQuery{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
}

func TestList_RangoFechasInvalido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.List(context.Background(), e.admin, dto.SolicitudListQuery{Desde: "2026-13-01"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_SoloDuenoOAdmin(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	_, err := e.uc.Get(ctx, e.other, s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.uc.Get(ctx, e.admin, s.ID)
	assert.NoError(t, err)
	_, err = e.uc.Get(ctx, e.owner, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_DuenoEditaContenidoMientrasPendiente(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)

	resp, err := e.uc.Update(context.Background(), e.owner, s.ID, dto.UpdateSolicitudRequest{Titulo: strPtr("Pantalla rota")})
	require.NoError(t, err)
	assert.Equal(t, "Pantalla rota", resp.Titulo)
	assert.Equal(t, "pendiente", resp.Estado)
}

func TestUpdate_NoAdminNuncaSacaDePendiente(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	_, err := e.uc.Update(ctx, e.owner, s.ID, dto.UpdateSolicitudRequest{Estado: strPtr("aprobada")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.uc.Update(ctx, e.owner, s.ID, dto.UpdateSolicitudRequest{Respuesta: strPtr("ok")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.uc.Update(ctx, e.other, s.ID, dto.UpdateSolicitudRequest{Titulo: strPtr("ajeno")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.uc.Get(ctx, e.admin, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "pendiente", got.Estado)
	assert.Equal(t, "No enciende", got.Titulo)
}

func TestUpdate_DuenoNoEditaTrasSalirDePendiente(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	_, err := e.uc.Respond(ctx, e.admin, s.ID, dto.RespondSolicitudRequest{Estado: "en_proceso"})
	require.NoError(t, err)

	_, err = e.uc.Update(ctx, e.owner, s.ID, dto.UpdateSolicitudRequest{Titulo: strPtr("otro")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_AdminCambiaEstadoSellaResolutor(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	resp, err := e.uc.Update(ctx, e.admin, s.ID, dto.UpdateSolicitudRequest{Estado: strPtr("rechazada"), Respuesta: strPtr("Sin presupuesto")})
	require.NoError(t, err)
	assert.Equal(t, "rechazada", resp.Estado)
	assert.Equal(t, "Sin presupuesto", resp.Respuesta)
	require.NotNil(t, resp.Resolver)
	assert.Equal(t, e.admin.ID, resp.Resolver.ID)
	require.NotNil(t, resp.FechaRespuesta)

	_, err = e.uc.Update(ctx, e.admin, s.ID, dto.UpdateSolicitudRequest{Estado: strPtr("cerrada")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_AdminSinCambioDeEstadoNoSella(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)

	resp, err := e.uc.Update(context.Background(), e.admin, s.ID, dto.UpdateSolicitudRequest{Estado: strPtr("pendiente"), Titulo: strPtr("Revisado")})
	require.NoError(t, err)
	assert.Nil(t, resp.Resolver)
	assert.Nil(t, resp.FechaRespuesta)
}

func TestUpdate_ConcurrenteUltimaEscrituraGana(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, title := range []string{"A", "B"} {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			_, err := e.uc.Update(ctx, e.owner, s.ID, dto.UpdateSolicitudRequest{Titulo: strPtr(title)})
			assert.NoError(t, err)
		}(title)
	}
	wg.Wait()

	got, err := e.uc.Get(ctx, e.owner, s.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{"A", "B"}, got.Titulo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Respond / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestRespond_EscenarioAprobacion(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	resp, err := e.uc.Respond(ctx, e.admin, s.ID, dto.RespondSolicitudRequest{Estado: "aprobada", Respuesta: "Se programa revisión"})
	require.NoError(t, err)
	assert.Equal(t, "aprobada", resp.Estado)
	require.NotNil(t, resp.Resolver)
	assert.Equal(t, e.admin.ID, resp.Resolver.ID)
	assert.NotNil(t, resp.FechaRespuesta)
}

func TestRespond_Validaciones(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	_, err := e.uc.Respond(ctx, e.owner, s.ID, dto.RespondSolicitudRequest{Estado: "aprobada"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.uc.Respond(ctx, e.admin, s.ID, dto.RespondSolicitudRequest{Estado: "finalizada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.uc.Respond(ctx, e.admin, "no-existe", dto.RespondSolicitudRequest{Estado: "aprobada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BorraAdjuntosYArchivos(t *testing.T) {
	e := setup(t)
	s := e.create(t, e.owner)
	ctx := context.Background()

	stored, err := e.storage.Save(ctx, "foto.txt", strings.NewReader("hola"))
	require.NoError(t, err)
	require.NoError(t, e.store.Attachments().Create(ctx, &entity.Attachment{
		ID: "att-1", SolicitudID: s.ID, OriginalName: "foto.txt", StoredName: stored.StoredName,
		StoragePath: stored.Path, MIMEType: "text/plain", Size: 4, UploadedBy: e.owner.ID, UploadedAt: time.Now(),
	}))

	assert.ErrorIs(t, e.uc.Delete(ctx, e.owner, s.ID), domain.ErrForbidden)
	require.NoError(t, e.uc.Delete(ctx, e.admin, s.ID))

	assert.Zero(t, e.store.CountAttachments())
	assert.Zero(t, e.storage.Count())
	_, err = e.uc.Get(ctx, e.admin, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
