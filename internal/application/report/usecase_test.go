package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository/repotest"
)

// fakeRenderer guarda la última tabla recibida y devuelve las filas como texto plano.
type fakeRenderer struct {
	last *ports.ReportTable
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, t *ports.ReportTable) ([]byte, error) {
	f.last = t
	if f.err != nil {
		return nil, f.err
	}
	var b strings.Builder
	b.WriteString(t.Title + "\n")
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, ";") + "\n")
	}
	return []byte(b.String()), nil
}

type env struct {
	store    *repotest.Store
	files    *repotest.Storage
	pdf      *fakeRenderer
	excel    *fakeRenderer
	uc       *UseCase
	fx       repotest.Fixture
	admin    authz.Actor
	tech     authz.Actor
	tech2    authz.Actor
	user     authz.Actor
	techName string
}

func setup(t *testing.T) *env {
	t.Helper()
	store := repotest.NewStore()
	files := repotest.NewStorage()
	pdf, excel := &fakeRenderer{}, &fakeRenderer{}
	src := Sources{
		Equipment:   store.Equipment(),
		Maintenance: store.Maintenance(),
		Movements:   store.Movements(),
		Solicitudes: store.Solicitudes(),
		Users:       store.Users(),
	}
	renderers := map[entity.ReporteFormato]ports.ReportRenderer{entity.FormatoPDF: pdf, entity.FormatoExcel: excel}
	tech := store.AddUser("tech", entity.RoleTecnico)
	return &env{
		store:    store,
		files:    files,
		pdf:      pdf,
		excel:    excel,
		uc:       New(store.Reports(), src, renderers, files, zerolog.Nop()),
		fx:       store.SeedEquipment(),
		admin:    actorOf(store.AddUser("admin", entity.RoleAdministrador)),
		tech:     actorOf(tech),
		tech2:    actorOf(store.AddUser("tech2", entity.RoleTecnico)),
		user:     actorOf(store.AddUser("user", entity.RoleUsuario)),
		techName: tech.Name,
	}
}

func actorOf(u entity.User) authz.Actor { return authz.Actor{ID: u.ID, Role: u.Role} }

func (e *env) generate(t *testing.T, a authz.Actor, tipo, formato string) *dto.ReportResponse {
	t.Helper()
	resp, err := e.uc.Generate(context.Background(), a, dto.GenerateReportRequest{Tipo: tipo, Formato: formato})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Generate
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_InventarioPDF(t *testing.T) {
	e := setup(t)
	resp := e.generate(t, e.tech, "inventario", "pdf")

	assert.Equal(t, "completado", resp.Estado)
	require.NotNil(t, resp.CompletedAt)
	require.NotNil(t, e.pdf.last)
	assert.Equal(t, "Inventario de equipos", e.pdf.last.Title)
	assert.Equal(t, "Sin filtros", e.pdf.last.Subtitle)
	assert.Equal(t, e.techName, e.pdf.last.GeneratedBy)
	require.Len(t, e.pdf.last.Rows, 1)
	assert.Equal(t, "EQ-01", e.pdf.last.Rows[0][0])
	assert.Equal(t, "Bodega central", e.pdf.last.Rows[0][7])
	assert.Nil(t, e.excel.last)
	assert.Equal(t, 1, e.files.Count())
}

func TestGenerate_FiltrosSeAplican(t *testing.T) {
	e := setup(t)
	e.store.AddEquipment("EQ-02", "SN-02", e.fx.Type.ID, e.fx.Activo.ID, e.fx.LocationB.ID)

	_, err := e.uc.Generate(context.Background(), e.admin, dto.GenerateReportRequest{
		Tipo: "inventario", Formato: "excel", Filtros: map[string]string{"ubicacion_id": e.fx.LocationB.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, e.excel.last)
	require.Len(t, e.excel.last.Rows, 1)
	assert.Equal(t, "EQ-02", e.excel.last.Rows[0][0])
	assert.Contains(t, e.excel.last.Subtitle, "ubicacion_id=")
}

func TestGenerate_FalloDeRenderQuedaEnError(t *testing.T) {
	e := setup(t)
	e.pdf.err = errors.New("fuente no encontrada")

	resp := e.generate(t, e.tech, "movimientos", "pdf")
	assert.Equal(t, "error", resp.Estado)
	assert.Contains(t, resp.Error, "fuente no encontrada")
	assert.Nil(t, resp.CompletedAt)
	assert.Zero(t, e.files.Count())
}

func TestGenerate_FalloDeAlmacenamientoQuedaEnError(t *testing.T) {
	e := setup(t)
	e.files.SaveErr = errors.New("disco lleno")

	resp := e.generate(t, e.tech, "solicitudes", "excel")
	assert.Equal(t, "error", resp.Estado)
	assert.Contains(t, resp.Error, "disco lleno")
}

func TestGenerate_FiltroDeFechaInvalido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Generate(context.Background(), e.tech, dto.GenerateReportRequest{
		Tipo: "mantenimientos", Formato: "pdf", Filtros: map[string]string{"desde": "ayer"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := e.uc.List(context.Background(), e.tech, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "error", page.Items[0].Estado)
}

func TestGenerate_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.uc.Generate(ctx, e.user, dto.GenerateReportRequest{Tipo: "inventario", Formato: "pdf"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.Generate(ctx, e.tech, dto.GenerateReportRequest{Tipo: "ventas", Formato: "pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Generate(ctx, e.tech, dto.GenerateReportRequest{Tipo: "inventario", Formato: "csv"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Download / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestList_PropiosOTodos(t *testing.T) {
	e := setup(t)
	e.generate(t, e.tech, "inventario", "pdf")
	e.generate(t, e.tech2, "inventario", "pdf")
	ctx := context.Background()

	own, err := e.uc.List(ctx, e.tech, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, own.Pagination.Total)

	all, err := e.uc.List(ctx, e.admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Pagination.Total)
}

func TestDownload_DuenoYAdmin(t *testing.T) {
	e := setup(t)
	rep := e.generate(t, e.tech, "inventario", "excel")
	ctx := context.Background()

	f, err := e.uc.Download(ctx, e.tech, rep.ID)
	require.NoError(t, err)
	defer f.Content.Close()
	body, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	assert.Contains(t, string(body), "EQ-01")
	assert.True(t, strings.HasSuffix(f.Name, ".xlsx"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.MIMEType)

	_, err = e.uc.Download(ctx, e.tech2, rep.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f, err = e.uc.Download(ctx, e.admin, rep.ID)
	require.NoError(t, err)
	f.Content.Close()
}

func TestDownload_NoCompletadoEsConflicto(t *testing.T) {
	e := setup(t)
	e.pdf.err = errors.New("boom")
	rep := e.generate(t, e.tech, "inventario", "pdf")

	_, err := e.uc.Download(context.Background(), e.tech, rep.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDownload_ArchivoAusente(t *testing.T) {
	e := setup(t)
	rep := e.generate(t, e.tech, "inventario", "pdf")
	stored, err := e.store.Reports().GetByID(context.Background(), rep.ID)
	require.NoError(t, err)
	e.files.Remove(stored.ArchivoPath)

	_, err = e.uc.Download(context.Background(), e.tech, rep.ID)
	assert.ErrorIs(t, err, domain.ErrFileMissing)
}

func TestDelete_SoloAdminYBorraArchivo(t *testing.T) {
	e := setup(t)
	rep := e.generate(t, e.tech, "inventario", "pdf")
	ctx := context.Background()

	assert.ErrorIs(t, e.uc.Delete(ctx, e.tech, rep.ID), domain.ErrForbidden)
	require.NoError(t, e.uc.Delete(ctx, e.admin, rep.ID))
	assert.Zero(t, e.files.Count())

	_, err := e.uc.Download(ctx, e.admin, rep.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
