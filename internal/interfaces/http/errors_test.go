package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", fmt.Errorf("%w: titulo", domain.ErrInvalidInput), 400, "VALIDATION"},
		{"no encontrado", fmt.Errorf("%w: equipo x", domain.ErrNotFound), 404, "NOT_FOUND"},
		{"usuario no encontrado", domain.ErrUserNotFound, 404, "NOT_FOUND"},
		{"archivo perdido", fmt.Errorf("%w: adjunto x", domain.ErrFileMissing), 404, "FILE_NOT_FOUND"},
		{"duplicado", domain.ErrDuplicate, 409, "CONFLICT"},
		{"email existente", domain.ErrEmailAlreadyExists, 409, "CONFLICT"},
		{"conflicto", domain.ErrConflict, 409, "CONFLICT"},
		{"prohibido", fmt.Errorf("%w: users.manage", domain.ErrForbidden), 403, "FORBIDDEN"},
		{"no autorizado", domain.ErrUnauthorized, 401, "UNAUTHORIZED"},
		{"bloqueado", domain.ErrAccountLocked, 429, "ACCOUNT_LOCKED"},
		{"ruta inexistente", fiber.ErrNotFound, 404, "NOT_FOUND"},
		{"cuerpo demasiado grande", fiber.ErrRequestEntityTooLarge, 413, "PAYLOAD_TOO_LARGE"},
		{"desconocido", errors.New("pgx: conexión cerrada"), 500, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func errorApp(production bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zerolog.Nop(), production)})
	app.Get("/x", func(c *fiber.Ctx) error { return err })
	return app
}

func callX(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_ProduccionOcultaErroresInternos(t *testing.T) {
	status, body := callX(t, errorApp(true, errors.New("dial tcp 10.0.0.5:5432: refused")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, genericInternalMessage, body.Message)
	assert.False(t, body.Success)
}

func TestErrorHandler_DesarrolloMuestraMensaje(t *testing.T) {
	_, body := callX(t, errorApp(false, errors.New("dial tcp 10.0.0.5:5432: refused")))
	assert.Contains(t, body.Message, "10.0.0.5")
}

func TestErrorHandler_ErroresDeDominioConservanMensaje(t *testing.T) {
	status, body := callX(t, errorApp(true, fmt.Errorf("%w: el equipo abc no existe", domain.ErrInvalidInput)))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Message, "el equipo abc no existe")
}

func TestValidator_EnumsPersonalizados(t *testing.T) {
	val := NewValidator()

	err := val.Struct(&dto.CreateSolicitudRequest{Tipo: "prestamo", Titulo: "t", Descripcion: "d"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'tipo'")

	assert.NoError(t, val.Struct(&dto.CreateSolicitudRequest{Tipo: "retiro", Titulo: "t", Descripcion: "d"}))

	err = val.Struct(&dto.GenerateReportRequest{Tipo: "inventario", Formato: "csv"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'formato'")
}

func TestContentDisposition(t *testing.T) {
	got := contentDisposition("Acta Técnica.pdf")
	assert.Equal(t, `attachment; filename="Acta_Tecnica.pdf"; filename*=UTF-8''Acta%20T%C3%A9cnica.pdf`, got)
}
