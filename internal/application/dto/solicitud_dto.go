package dto

import "time"

// CreateSolicitudRequest entrada para crear una solicitud. equipo_id es opcional (nuevo_equipo).
type CreateSolicitudRequest struct {
	Tipo        string  `json:"tipo" validate:"required,solicitud_tipo"`
	Titulo      string  `json:"titulo" validate:"required,max=200"`
	Descripcion string  `json:"descripcion" validate:"required"`
	EquipoID    *string `json:"equipo_id" validate:"omitempty,uuid"`
}

// UpdateSolicitudRequest campos opcionales. estado y respuesta solo los aplica un administrador.
type UpdateSolicitudRequest struct {
	Tipo        *string `json:"tipo" validate:"omitempty,solicitud_tipo"`
	Titulo      *string `json:"titulo" validate:"omitempty,min=1,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,min=1"`
	Estado      *string `json:"estado"`
	Respuesta   *string `json:"respuesta"`
}

// RespondSolicitudRequest respuesta formal del administrador.
type RespondSolicitudRequest struct {
	Estado    string `json:"estado" validate:"required"`
	Respuesta string `json:"respuesta"`
}

// SolicitudListQuery filtros de GET /requests. Fechas en YYYY-MM-DD.
type SolicitudListQuery struct {
	SolicitanteID string `query:"solicitante_id" validate:"omitempty,uuid"`
	EquipoID      string `query:"equipo_id" validate:"omitempty,uuid"`
	Estado        string `query:"estado" validate:"omitempty,solicitud_estado"`
	Tipo          string `query:"tipo" validate:"omitempty,solicitud_tipo"`
	Desde         string `query:"desde"`
	Hasta         string `query:"hasta"`
}

// SolicitudResponse salida de una solicitud con solicitante, equipo y resolutor.
type SolicitudResponse struct {
	ID             string                    `json:"id"`
	Tipo           string                    `json:"tipo"`
	Titulo         string                    `json:"titulo"`
	Descripcion    string                    `json:"descripcion"`
	Estado         string                    `json:"estado"`
	Respuesta      string                    `json:"respuesta,omitempty"`
	FechaSolicitud time.Time                 `json:"fecha_solicitud"`
	FechaRespuesta *time.Time                `json:"fecha_respuesta,omitempty"`
	Solicitante    UserSummaryResponse       `json:"solicitante"`
	Equipo         *EquipmentSummaryResponse `json:"equipo,omitempty"`
	Resolver       *UserSummaryResponse      `json:"resolutor,omitempty"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// AttachmentResponse metadatos de un adjunto.
type AttachmentResponse struct {
	ID           string              `json:"id"`
	SolicitudID  string              `json:"solicitud_id"`
	OriginalName string              `json:"nombre_original"`
	MIMEType     string              `json:"tipo_mime"`
	Size         int64               `json:"tamano"`
	Descripcion  string              `json:"descripcion,omitempty"`
	UploadedAt   time.Time           `json:"fecha_subida"`
	Uploader     UserSummaryResponse `json:"subido_por"`
}
