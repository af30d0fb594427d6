package http

import (
	"fmt"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/attachment"
	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/pkg/textutil"
)

// AttachmentHandler carga, listado, descarga y borrado de adjuntos.
type AttachmentHandler struct {
	uc *attachment.UseCase
}

func NewAttachmentHandler(uc *attachment.UseCase) *AttachmentHandler {
	return &AttachmentHandler{uc: uc}
}

// Upload godoc
// @Summary      Adjuntar archivo a una solicitud
// @Description  Máximo 10 MiB. Tipos: imágenes, PDF, Word, Excel, texto.
// @Tags         attachments
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "ID de la solicitud"
// @Param        file         formData  file    true   "Archivo"
// @Param        descripcion  formData  string  false  "Descripción"
// @Success      201  {object}  dto.Envelope{data=dto.AttachmentResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: el campo 'file' es obligatorio", domain.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("abrir archivo recibido: %w", err)
	}
	defer f.Close()

	out, err := h.uc.Upload(c.UserContext(), GetActor(c), attachment.UploadInput{
		SolicitudID:  c.Params("id"),
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Content:      f,
		Descripcion:  c.FormValue("descripcion"),
	})
	if err != nil {
		return err
	}
	return respondCreated(c, out)
}

// List godoc
// @Summary      Listar adjuntos de una solicitud
// @Tags         attachments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.Envelope{data=[]dto.AttachmentResponse}
// @Router       /api/requests/{id}/attachments [get]
func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	if out == nil {
		out = []dto.AttachmentResponse{}
	}
	return respondOK(c, out)
}

// Download godoc
// @Summary      Descargar adjunto
// @Tags         attachments
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID del adjunto"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse  "NOT_FOUND o FILE_NOT_FOUND"
// @Router       /api/attachments/{id} [get]
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, file.Name, file.MIMEType, file.Content, int(file.Size))
}

func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "adjunto eliminado")
}

// sendFile transmite content como descarga. fasthttp cierra content al terminar.
// size -1 envía con chunked encoding.
func sendFile(c *fiber.Ctx, name, mimeType string, content io.ReadCloser, size int) error {
	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(name))
	return c.SendStream(content, size)
}

// contentDisposition nombre ASCII de respaldo más filename* en UTF-8 (RFC 6266).
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, textutil.SafeFilename(name), url.PathEscape(name))
}
