package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/movement"
)

// MovementHandler libro de movimientos entre ubicaciones.
type MovementHandler struct {
	uc  *movement.UseCase
	val *Validator
}

func NewMovementHandler(uc *movement.UseCase, val *Validator) *MovementHandler {
	return &MovementHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  El equipo queda en la ubicación de destino.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Datos"
// @Success      201   {object}  dto.Envelope{data=dto.MovementResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return respondCreated(c, out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        equipo_id       query  string  false  "Equipo"
// @Param        responsable_id  query  string  false  "Responsable"
// @Param        ubicacion_id    query  string  false  "Origen o destino"
// @Param        desde           query  string  false  "YYYY-MM-DD"
// @Param        hasta           query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.Envelope{data=[]dto.MovementResponse}
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := h.val.bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q, pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Si el equipo sigue en el destino vuelve al origen.
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "movimiento eliminado")
}
