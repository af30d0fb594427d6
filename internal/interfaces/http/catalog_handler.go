package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/usecase"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// CatalogHandler CRUD de un catálogo (tipos, estados o ubicaciones); una instancia por tabla.
type CatalogHandler struct {
	uc   *usecase.CatalogUseCase
	val  *Validator
	kind entity.CatalogKind
}

func NewCatalogHandler(uc *usecase.CatalogUseCase, val *Validator, kind entity.CatalogKind) *CatalogHandler {
	return &CatalogHandler{uc: uc, val: val, kind: kind}
}

// List godoc
// @Summary      Listar catálogo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.CatalogResponse}
// @Router       /api/equipment-types [get]
// @Router       /api/equipment-statuses [get]
// @Router       /api/locations [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.kind)
	if err != nil {
		return err
	}
	if out == nil {
		out = []dto.CatalogResponse{}
	}
	return respondOK(c, out)
}

func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// Create godoc
// @Summary      Crear elemento de catálogo
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogRequest  true  "nombre, descripcion"
// @Success      201   {object}  dto.Envelope{data=dto.CatalogResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment-types [post]
// @Router       /api/equipment-statuses [post]
// @Router       /api/locations [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), h.kind, in)
	if err != nil {
		return err
	}
	return respondCreated(c, out)
}

func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), h.kind, c.Params("id"), in)
	if err != nil {
		return err
	}
	return respondOK(c, out)
}

// Delete godoc
// @Summary      Eliminar elemento de catálogo
// @Description  409 mientras algún equipo lo referencie.
// @Tags         catalogs
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), h.kind, c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "eliminado")
}
