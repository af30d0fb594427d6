package attachment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository/repotest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type env struct {
	store     *repotest.Store
	storage   *repotest.Storage
	uc        *UseCase
	solicitud *entity.Solicitud
	admin     authz.Actor
	owner     authz.Actor
	tech      authz.Actor
	stranger  authz.Actor
}

func actor(u entity.User) authz.Actor { return authz.Actor{ID: u.ID, Role: u.Role} }

func setup(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore()
	storage := repotest.NewStorage()
	owner := store.AddUser("owner", entity.RoleUsuario)
	sol := &entity.Solicitud{
		ID: "sol-1", SolicitanteID: owner.ID, Tipo: entity.SolicitudMantenimiento, Titulo: "t", Descripcion: "d",
		Estado: entity.SolicitudPendiente, FechaSolicitud: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Solicitudes().Create(context.Background(), sol))
	return &env{
		store:     store,
		storage:   storage,
		uc:        New(store.Attachments(), store.Solicitudes(), storage, 0, zerolog.Nop()),
		solicitud: sol,
		admin:     actor(store.AddUser("admin", entity.RoleAdministrador)),
		owner:     actor(owner),
		tech:      actor(store.AddUser("tech", entity.RoleTecnico)),
		stranger:  actor(store.AddUser("stranger", entity.RoleUsuario)),
	}
}

func (e *env) input(name string, data []byte) UploadInput {
	return UploadInput{SolicitudID: e.solicitud.ID, OriginalName: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Upload
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_DuenoSubePNG(t *testing.T) {
	e := setup(t)
	in := e.input("../../foto.png", pngHeader)
	in.Descripcion = "evidencia"

	resp, err := e.uc.Upload(context.Background(), e.owner, in)
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.MIMEType)
	assert.Equal(t, "foto.png", resp.OriginalName)
	assert.Equal(t, e.owner.ID, resp.Uploader.ID)
	assert.Equal(t, "evidencia", resp.Descripcion)
	assert.Equal(t, 1, e.storage.Count())
}

func TestUpload_TextoPlanoSinCharset(t *testing.T) {
	e := setup(t)
	resp, err := e.uc.Upload(context.Background(), e.tech, e.input("notas.txt", []byte("el equipo hace ruido\n")))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", resp.MIMEType)
}

func TestUpload_NotasConComasOTabsSonTextoPlano(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"una coma por línea", "El equipo no enciende, revisar fuente.\nSe cambió el cable, sigue igual.\n"},
		{"una tabulación por línea", "Sala 3\tproyector sin señal\nSala 4\tcontrol sin pilas\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := setup(t)
			resp, err := e.uc.Upload(context.Background(), e.owner, e.input("nota.txt", []byte(tc.data)))
			require.NoError(t, err)
			assert.Equal(t, "text/plain", resp.MIMEType)
		})
	}
}

func TestDetectMIME_MarcadoNoEsTextoPlano(t *testing.T) {
	assert.Empty(t, detectMIME([]byte("<!DOCTYPE html><html><body>x</body></html>")))
	assert.Empty(t, detectMIME([]byte(`<?xml version="1.0"?><nota>x</nota>`)))
	assert.Empty(t, detectMIME([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)))
	assert.Equal(t, "text/plain", detectMIME([]byte("cambio de toner\n")))
}

func TestUpload_RechazosNoDejanRastro(t *testing.T) {
	cases := []struct {
		name string
		in   func(e *env) UploadInput
	}{
		{"tamaño declarado excesivo", func(e *env) UploadInput {
			in := e.input("grande.png", pngHeader)
			in.Size = entity.MaxAttachmentSize + 1
			return in
		}},
		{"contenido real excesivo", func(e *env) UploadInput {
			data := append(append([]byte{}, pngHeader...), make([]byte, entity.MaxAttachmentSize)...)
			in := e.input("grande.png", data)
			in.Size = 10
			return in
		}},
		{"mime no permitido", func(e *env) UploadInput {
			return e.input("script.html", []byte("<!DOCTYPE html><html><body>x</body></html>"))
		}},
		{"binario disfrazado", func(e *env) UploadInput {
			return e.input("foto.png", []byte("\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
		}},
		{"vacío", func(e *env) UploadInput { return e.input("vacio.txt", nil) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := setup(t)
			_, err := e.uc.Upload(context.Background(), e.owner, tc.in(e))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, e.store.CountAttachments())
			assert.Zero(t, e.storage.Count())
		})
	}
}

func TestUpload_SolicitudInexistente(t *testing.T) {
	e := setup(t)
	in := e.input("a.txt", []byte("hola"))
	in.SolicitudID = "no-existe"

	_, err := e.uc.Upload(context.Background(), e.owner, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpload_AjenoProhibido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Upload(context.Background(), e.stranger, e.input("a.txt", []byte("hola")))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, e.storage.Count())
}

func TestUpload_FalloAlRegistrarEliminaArchivo(t *testing.T) {
	e := setup(t)
	e.store.FailOn("attachments.Create", errors.New("db caída"))

	_, err := e.uc.Upload(context.Background(), e.owner, e.input("a.txt", []byte("hola")))
	assert.Error(t, err)
	assert.Zero(t, e.storage.Count())
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Download / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestList_MasRecientePrimero(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	first, err := e.uc.Upload(ctx, e.owner, e.input("1.txt", []byte("uno")))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := e.uc.Upload(ctx, e.tech, e.input("2.txt", []byte("dos")))
	require.NoError(t, err)

	list, err := e.uc.List(ctx, e.owner, e.solicitud.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "tech", list[0].Uploader.Name)

	_, err = e.uc.List(ctx, e.stranger, e.solicitud.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDownload_FilaVsArchivoFaltante(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	att, err := e.uc.Upload(ctx, e.owner, e.input("a.txt", []byte("contenido")))
	require.NoError(t, err)

	f, err := e.uc.Download(ctx, e.owner, att.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(f.Content)
	_ = f.Content.Close()
	assert.Equal(t, "contenido", string(body))
	assert.Equal(t, "a.txt", f.Name)

	_, err = e.uc.Download(ctx, e.owner, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrFileMissing))

	row, _ := e.store.Attachments().GetByID(ctx, att.ID)
	e.storage.Remove(row.StoragePath)
	_, err = e.uc.Download(ctx, e.owner, att.ID)
	assert.ErrorIs(t, err, domain.ErrFileMissing)
}

func TestDelete_SoloAdminOQuienSubio(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	att, err := e.uc.Upload(ctx, e.tech, e.input("a.txt", []byte("x")))
	require.NoError(t, err)

	for _, a := range []authz.Actor{e.owner, e.stranger} {
		assert.ErrorIs(t, e.uc.Delete(ctx, a, att.ID), domain.ErrForbidden)
	}
	assert.Equal(t, 1, e.store.CountAttachments())
	assert.Equal(t, 1, e.storage.Count())

	require.NoError(t, e.uc.Delete(ctx, e.tech, att.ID))
	assert.Zero(t, e.store.CountAttachments())
	assert.Zero(t, e.storage.Count())
}

func TestDelete_AdminConArchivoYaBorrado(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	att, err := e.uc.Upload(ctx, e.owner, e.input("a.txt", []byte(strings.Repeat("x", 10))))
	require.NoError(t, err)
	row, _ := e.store.Attachments().GetByID(ctx, att.ID)
	e.storage.Remove(row.StoragePath)

	require.NoError(t, e.uc.Delete(ctx, e.admin, att.ID))
	assert.Zero(t, e.store.CountAttachments())
}
