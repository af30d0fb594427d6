package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/movement"
	"github.com/jhoicas/tesa-inventario/internal/application/usecase"
)

// EquipmentHandler registro de equipos y su historial de movimientos.
type EquipmentHandler struct {
	uc        *usecase.EquipmentUseCase
	movements *movement.UseCase
	val       *Validator
}

func NewEquipmentHandler(uc *usecase.EquipmentUseCase, movements *movement.UseCase, val *Validator) *EquipmentHandler {
	return &EquipmentHandler{uc: uc, movements: movements, val: val}
}

// Create godoc
// @Summary      Crear equipo
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "Datos del equipo"
// @Success      201   {object}  dto.Envelope{data=dto.EquipmentResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEquipmentRequest
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
// @Summary      Listar equipos
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        tipo_id              query  string  false  "Tipo"
// @Param        estado_id            query  string  false  "Estado"
// @Param        ubicacion_id         query  string  false  "Ubicación"
// @Param        usuario_asignado_id  query  string  false  "Usuario asignado"
// @Param        search               query  string  false  "Código, nombre o serie"
// @Param        page                 query  int     false  "Página"  default(1)
// @Param        limit                query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.Envelope{data=[]dto.EquipmentResponse}
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	var q dto.EquipmentListQuery
	if err := h.val.bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q, pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

// GetByID godoc
// @Summary      Obtener equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.Envelope{data=dto.EquipmentResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [get]
func (h *EquipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "equipo eliminado")
}

// Movements godoc
// @Summary      Historial de movimientos del equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del equipo"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.Envelope{data=[]dto.MovementResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/movements [get]
func (h *EquipmentHandler) Movements(c *fiber.Ctx) error {
	out, err := h.movements.HistoryByEquipment(c.UserContext(), c.Params("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}
