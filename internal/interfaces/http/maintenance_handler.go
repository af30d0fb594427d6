package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/maintenance"
)

// MaintenanceHandler mantenimientos y estadísticas.
type MaintenanceHandler struct {
	uc  *maintenance.UseCase
	val *Validator
}

func NewMaintenanceHandler(uc *maintenance.UseCase, val *Validator) *MaintenanceHandler {
	return &MaintenanceHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Registrar mantenimiento
// @Description  Si el estado es en_proceso el equipo pasa a "En Mantenimiento".
// @Tags         maintenance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaintenanceRequest  true  "Datos"
// @Success      201   {object}  dto.Envelope{data=dto.MaintenanceResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/maintenance [post]
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaintenanceRequest
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
// @Summary      Listar mantenimientos
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Param        equipo_id   query  string  false  "Equipo"
// @Param        tecnico_id  query  string  false  "Técnico"
// @Param        estado      query  string  false  "Estado"
// @Param        tipo        query  string  false  "Tipo"
// @Param        desde       query  string  false  "YYYY-MM-DD"
// @Param        hasta       query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.Envelope{data=[]dto.MaintenanceResponse}
// @Router       /api/maintenance [get]
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	var q dto.MaintenanceListQuery
	if err := h.val.bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q, pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

// Stats godoc
// @Summary      Estadísticas de mantenimiento
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.MaintenanceStatsResponse}
// @Router       /api/maintenance/stats [get]
func (h *MaintenanceHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *MaintenanceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaintenanceRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "mantenimiento eliminado")
}
