package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
)

const genericInternalMessage = "error interno del servidor"

// errorMapping código HTTP y código de negocio para cada error de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: ErrFileMissing antes que cualquier NotFound genérico.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrFileMissing, fiber.StatusNotFound, "FILE_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrAccountLocked, fiber.StatusTooManyRequests, "ACCOUNT_LOCKED"},
}

// classify devuelve estado HTTP y código para err. Lo no reconocido es 500 INTERNAL.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, "PAYLOAD_TOO_LARGE"
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, "BAD_REQUEST"
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// NewErrorHandler ErrorHandler global de fiber: todo error devuelto por un handler, middleware
// o panic recuperado termina aquí. En producción los 500 no exponen el mensaje original.
func NewErrorHandler(log zerolog.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := classify(err)
		msg := err.Error()
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("user_id", GetUserID(c)).
				Msg("error interno")
			if production {
				msg = genericInternalMessage
			}
		}
		var fe *fiber.Error
		if errors.As(err, &fe) && status != fiber.StatusInternalServerError {
			msg = strings.ToLower(fe.Message)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Message: msg})
	}
}
