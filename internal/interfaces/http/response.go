package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
)

func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Data: data})
}

func respondMessage(c *fiber.Ctx, msg string) error {
	return c.JSON(dto.Envelope{Success: true, Message: msg})
}

// respondPage lista paginada: data siempre es un arreglo (nunca null).
func respondPage[T any](c *fiber.Ctx, page *dto.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	p := page.Pagination
	return c.JSON(dto.Envelope{Success: true, Data: items, Pagination: &p})
}
