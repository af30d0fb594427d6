// Package attachment gestiona los archivos adjuntos de las solicitudes.
package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UploadInput archivo recibido para adjuntar a una solicitud.
type UploadInput struct {
	SolicitudID  string
	OriginalName string
	Size         int64
	Content      io.Reader
	Descripcion  string
}

// File contenido listo para descargar. El llamador cierra Content.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.ReadCloser
}

// UseCase casos de uso de adjuntos.
type UseCase struct {
	repo        repository.AttachmentRepository
	solicitudes repository.SolicitudRepository
	storage     ports.FileStorage
	maxSize     int64
	log         zerolog.Logger
}

// New construye el caso de uso. maxSize <= 0 usa entity.MaxAttachmentSize.
func New(repo repository.AttachmentRepository, solicitudes repository.SolicitudRepository, storage ports.FileStorage, maxSize int64, log zerolog.Logger) *UseCase {
	if maxSize <= 0 || maxSize > entity.MaxAttachmentSize {
		maxSize = entity.MaxAttachmentSize
	}
	return &UseCase{repo: repo, solicitudes: solicitudes, storage: storage, maxSize: maxSize, log: log}
}

func toResponse(d *entity.AttachmentDetail) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:           d.ID,
		SolicitudID:  d.SolicitudID,
		OriginalName: d.OriginalName,
		MIMEType:     d.MIMEType,
		Size:         d.Size,
		Descripcion:  d.Descripcion,
		UploadedAt:   d.UploadedAt,
		Uploader:     dto.UserSummaryFrom(d.Uploader),
	}
}

func (uc *UseCase) solicitud(ctx context.Context, id string) (*entity.Solicitud, error) {
	s, err := uc.solicitudes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Upload valida tamaño y tipo MIME (detectado por contenido) antes de tocar el almacenamiento,
// de modo que un rechazo no deja ni fila ni archivo. Si la fila no se puede insertar, el
// archivo ya guardado se elimina.
func (uc *UseCase) Upload(ctx context.Context, actor authz.Actor, in UploadInput) (*dto.AttachmentResponse, error) {
	s, err := uc.solicitud(ctx, in.SolicitudID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, s.SolicitanteID, authz.AttachmentsUploadAny); err != nil {
		return nil, err
	}
	name := filepath.Base(strings.TrimSpace(in.OriginalName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: el archivo no tiene nombre", domain.ErrInvalidInput)
	}
	if in.Size > uc.maxSize {
		return nil, fmt.Errorf("%w: el archivo supera el máximo de %d MB", domain.ErrInvalidInput, uc.maxSize>>20)
	}

	// Lee hasta maxSize+1 bytes: el tamaño declarado por el cliente no es confiable.
	data, err := io.ReadAll(io.LimitReader(in.Content, uc.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if int64(len(data)) > uc.maxSize {
		return nil, fmt.Errorf("%w: el archivo supera el máximo de %d MB", domain.ErrInvalidInput, uc.maxSize>>20)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}
	mime := detectMIME(data)
	if mime == "" {
		return nil, fmt.Errorf("%w: tipo de archivo no permitido", domain.ErrInvalidInput)
	}

	stored, err := uc.storage.Save(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("guardar archivo: %w", err)
	}
	att := &entity.Attachment{
		ID:           uuid.New().String(),
		SolicitudID:  s.ID,
		OriginalName: name,
		StoredName:   stored.StoredName,
		StoragePath:  stored.Path,
		MIMEType:     mime,
		Size:         int64(len(data)),
		Descripcion:  strings.TrimSpace(in.Descripcion),
		UploadedBy:   actor.ID,
		UploadedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, att); err != nil {
		if delErr := uc.storage.Delete(ctx, stored.Path); delErr != nil {
			uc.log.Error().Err(delErr).Str("path", stored.Path).Msg("archivo huérfano tras fallo al registrar adjunto")
		}
		return nil, err
	}
	uc.log.Info().Str("solicitud_id", s.ID).Str("adjunto_id", att.ID).Str("mime", mime).Int64("size", att.Size).Msg("adjunto registrado")

	detail := &entity.AttachmentDetail{Attachment: *att, Uploader: entity.UserSummary{ID: actor.ID}}
	list, err := uc.repo.ListBySolicitud(ctx, s.ID)
	if err == nil {
		for _, d := range list {
			if d.ID == att.ID {
				detail = d
			}
		}
	}
	resp := toResponse(detail)
	return &resp, nil
}

// plainTextVariants son hijos de text/plain que mimetype detecta en notas comunes
// (una coma o tabulación por línea). Se guardan como text/plain.
var plainTextVariants = []string{"text/csv", "text/tab-separated-values"}

// detectMIME devuelve el tipo MIME detectado si está permitido, o "" si no.
// No se recorre toda la jerarquía: text/html desciende de text/plain y no debe aceptarse.
func detectMIME(data []byte) string {
	m := mimetype.Detect(data)
	if m.Is("text/plain") || mimetype.EqualsAny(m.String(), plainTextVariants...) {
		return "text/plain"
	}
	if !mimetype.EqualsAny(m.String(), entity.AllowedAttachmentMIMETypes...) {
		return ""
	}
	// Se guarda sin parámetros (charset).
	base, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(base)
}

// List devuelve los adjuntos de una solicitud, los más recientes primero.
// Los ve quien puede ver la solicitud y los técnicos.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, solicitudID string) ([]dto.AttachmentResponse, error) {
	s, err := uc.solicitud(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOr(actor, s.SolicitanteID, authz.AttachmentsUploadAny); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListBySolicitud(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttachmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toResponse(d))
	}
	return out, nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Attachment, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: adjunto %s", domain.ErrNotFound, id)
	}
	return a, nil
}

// Download abre el archivo. Fila inexistente → ErrNotFound; archivo ausente → ErrFileMissing.
func (uc *UseCase) Download(ctx context.Context, actor authz.Actor, id string) (*File, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := uc.solicitud(ctx, a.SolicitudID)
	if err != nil {
		return nil, err
	}
	if actor.ID != a.UploadedBy {
		if err := authz.RequireOwnerOr(actor, s.SolicitanteID, authz.AttachmentsUploadAny); err != nil {
			return nil, err
		}
	}
	rc, err := uc.storage.Open(ctx, a.StoragePath)
	if err != nil {
		if errors.Is(err, domain.ErrFileMissing) {
			return nil, fmt.Errorf("%w: adjunto %s", domain.ErrFileMissing, a.ID)
		}
		return nil, err
	}
	return &File{Name: a.OriginalName, MIMEType: a.MIMEType, Size: a.Size, Content: rc}, nil
}

// Delete permitido al administrador o a quien subió el archivo. Si el archivo ya no existe
// se registra y se borra igualmente la fila.
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	a, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnerOr(actor, a.UploadedBy, authz.AttachmentsDeleteAny); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, a.StoragePath); err != nil {
		if !errors.Is(err, domain.ErrFileMissing) {
			return fmt.Errorf("eliminar archivo: %w", err)
		}
		uc.log.Warn().Str("adjunto_id", a.ID).Str("path", a.StoragePath).Msg("el archivo del adjunto ya no existía")
	}
	return uc.repo.Delete(ctx, id)
}
