package entity

import "time"

// MaxAttachmentSize límite de tamaño de un adjunto (10 MiB).
const MaxAttachmentSize int64 = 10 << 20

// AllowedAttachmentMIMETypes tipos aceptados para adjuntos de solicitud.
var AllowedAttachmentMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
}

// Attachment (AdjuntoSolicitud) archivo de evidencia asociado a una solicitud.
type Attachment struct {
	ID           string
	SolicitudID  string
	OriginalName string
	StoredName   string
	StoragePath  string
	MIMEType     string
	Size         int64
	Descripcion  string
	UploadedBy   string
	UploadedAt   time.Time
}

// AttachmentDetail incluye al usuario que subió el archivo.
type AttachmentDetail struct {
	Attachment
	Uploader UserSummary
}
