package repository

import (
	"context"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// SolicitudRepository define el puerto de persistencia para solicitudes.
type SolicitudRepository interface {
	Create(ctx context.Context, s *entity.Solicitud) error
	GetByID(ctx context.Context, id string) (*entity.Solicitud, error)
	GetDetail(ctx context.Context, id string) (*entity.SolicitudDetail, error)
	Update(ctx context.Context, s *entity.Solicitud) error
	List(ctx context.Context, filter SolicitudFilter, limit, offset int) ([]*entity.SolicitudDetail, int, error)
	Delete(ctx context.Context, id string) error
}

// AttachmentRepository define el puerto de persistencia para adjuntos de solicitud.
type AttachmentRepository interface {
	Create(ctx context.Context, a *entity.Attachment) error
	GetByID(ctx context.Context, id string) (*entity.Attachment, error)
	// ListBySolicitud devuelve los adjuntos más recientes primero.
	ListBySolicitud(ctx context.Context, solicitudID string) ([]*entity.AttachmentDetail, error)
	Delete(ctx context.Context, id string) error
	DeleteBySolicitud(ctx context.Context, solicitudID string) error
}
