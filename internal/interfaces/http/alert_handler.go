package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/alert"
	"github.com/jhoicas/tesa-inventario/internal/application/dto"
)

// AlertHandler registro de alertas.
type AlertHandler struct {
	uc  *alert.UseCase
	val *Validator
}

func NewAlertHandler(uc *alert.UseCase, val *Validator) *AlertHandler {
	return &AlertHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAlertRequest  true  "Datos"
// @Success      201   {object}  dto.Envelope{data=dto.AlertResponse}
// @Router       /api/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAlertRequest
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
// @Summary      Listar alertas
// @Description  El administrador ve todas; el resto, las dirigidas a él o creadas por él.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        estado     query  string  false  "Estado"
// @Param        prioridad  query  string  false  "Prioridad"
// @Param        tipo       query  string  false  "Tipo"
// @Param        equipo_id  query  string  false  "Equipo"
// @Success      200  {object}  dto.Envelope{data=[]dto.AlertResponse}
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var q dto.AlertListQuery
	if err := h.val.bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q, pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *AlertHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAlertRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.Envelope{data=dto.AlertResponse}
// @Router       /api/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkRead(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "alerta eliminada")
}
