// Package storage guarda el contenido binario de adjuntos y reportes en disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/pkg/textutil"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// LocalStorage implementa ports.FileStorage sobre un directorio raíz.
// Los archivos quedan en <raíz>/<AAAA>/<MM>/<uuid><ext>; la ruta guardada en BD es relativa.
type LocalStorage struct {
	root string
	now  func() time.Time
}

// NewLocalStorage crea la raíz si no existe.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio de almacenamiento %s: %w", root, err)
	}
	return &LocalStorage{root: root, now: time.Now}, nil
}

// Save escribe en un temporal y renombra al final: un fallo a mitad no deja archivos parciales.
func (s *LocalStorage) Save(ctx context.Context, originalName string, content io.Reader) (*ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := s.now().UTC().Format("2006/01")
	name := uuid.New().String() + textutil.Ext(originalName)
	rel := filepath.ToSlash(filepath.Join(dir, name))
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp := full + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("crear archivo temporal: %w", err)
	}
	size, err := io.Copy(f, content)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("cerrar archivo: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("renombrar archivo: %w", err)
	}
	return &ports.StoredFile{StoredName: name, Path: rel, Size: size}, nil
}

func (s *LocalStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileMissing, path)
		}
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	return f, nil
}

func (s *LocalStorage) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("consultar %s: %w", path, err)
	}
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrFileMissing, path)
		}
		return fmt.Errorf("borrar %s: %w", path, err)
	}
	return nil
}

// resolve convierte la ruta relativa en absoluta sin permitir salir de la raíz.
func (s *LocalStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if path == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: ruta de almacenamiento inválida", domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, clean), nil
}
