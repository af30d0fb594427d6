package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/solicitud"
)

// SolicitudHandler ciclo de vida de solicitudes.
type SolicitudHandler struct {
	uc  *solicitud.UseCase
	val *Validator
}

func NewSolicitudHandler(uc *solicitud.UseCase, val *Validator) *SolicitudHandler {
	return &SolicitudHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSolicitudRequest  true  "tipo, titulo, descripcion, equipo_id"
// @Success      201   {object}  dto.Envelope{data=dto.SolicitudResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *SolicitudHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSolicitudRequest
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
// @Summary      Listar solicitudes
// @Description  Los no administradores solo ven las propias.
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        solicitante_id  query  string  false  "Solicitante"
// @Param        equipo_id       query  string  false  "Equipo"
// @Param        estado          query  string  false  "Estado"
// @Param        tipo            query  string  false  "Tipo"
// @Param        desde           query  string  false  "YYYY-MM-DD"
// @Param        hasta           query  string  false  "YYYY-MM-DD"
// @Param        page            query  int     false  "Página"  default(1)
// @Param        limit           query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.Envelope{data=[]dto.SolicitudResponse}
// @Router       /api/requests [get]
func (h *SolicitudHandler) List(c *fiber.Ctx) error {
	var q dto.SolicitudListQuery
	if err := h.val.bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q, pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

func (h *SolicitudHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// Update godoc
// @Summary      Actualizar solicitud
// @Description  El dueño solo edita contenido mientras está pendiente; estado y respuesta son del administrador.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.UpdateSolicitudRequest  true  "Campos"
// @Success      200   {object}  dto.Envelope{data=dto.SolicitudResponse}
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [put]
func (h *SolicitudHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSolicitudRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// Respond godoc
// @Summary      Responder solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID"
// @Param        body  body  dto.RespondSolicitudRequest  true  "estado, respuesta"
// @Success      200   {object}  dto.Envelope{data=dto.SolicitudResponse}
// @Router       /api/requests/{id}/respond [patch]
func (h *SolicitudHandler) Respond(c *fiber.Ctx) error {
	var in dto.RespondSolicitudRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Respond(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

func (h *SolicitudHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "solicitud eliminada")
}
