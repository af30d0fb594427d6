package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/report"
)

// ReportHandler generación y descarga de reportes PDF / Excel.
type ReportHandler struct {
	uc  *report.UseCase
	val *Validator
}

func NewReportHandler(uc *report.UseCase, val *Validator) *ReportHandler {
	return &ReportHandler{uc: uc, val: val}
}

// Generate godoc
// @Summary      Generar reporte
// @Description  Síncrono. Si el render falla el registro queda en estado error.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateReportRequest  true  "tipo, formato, filtros"
// @Success      201   {object}  dto.Envelope{data=dto.ReportResponse}
// @Router       /api/reports [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateReportRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Generate(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return respondCreated(c, out)
}

// List godoc
// @Summary      Listar reportes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.ReportResponse}
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), pageRequest(c))
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

// Download godoc
// @Summary      Descargar reporte
// @Tags         reports
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID"
// @Success      200
// @Failure      409  {object}  dto.ErrorResponse  "el reporte no está completado"
// @Router       /api/reports/{id}/download [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, file.Name, file.MIMEType, file.Content, -1)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "reporte eliminado")
}
