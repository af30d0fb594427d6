package ports

import (
	"context"
	"io"
)

// StoredFile resultado de guardar un archivo en el almacenamiento.
type StoredFile struct {
	StoredName string // nombre generado (uuid + extensión)
	Path       string // ruta relativa a la raíz del almacenamiento
	Size       int64
}

// FileStorage define el puerto de salida para el contenido binario de adjuntos y reportes.
// Siguiendo el principio de inversión de dependencias (DIP), la aplicación solo conoce
// este contrato; el adaptador concreto puede ser disco local u otro backend.
type FileStorage interface {
	// Save escribe el contenido y devuelve dónde quedó. originalName solo aporta la extensión.
	Save(ctx context.Context, originalName string, content io.Reader) (*StoredFile, error)
	// Open abre el archivo para lectura. Devuelve domain.ErrFileMissing si ya no existe.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete borra el archivo. Devuelve domain.ErrFileMissing si ya no existía.
	Delete(ctx context.Context, path string) error
}
