package repotest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
)

var _ ports.FileStorage = (*Storage)(nil)

// Storage almacenamiento de archivos en memoria.
type Storage struct {
	mu      sync.Mutex
	files   map[string][]byte
	SaveErr error
}

// NewStorage construye un almacenamiento vacío.
func NewStorage() *Storage {
	return &Storage{files: map[string][]byte{}}
}

func (s *Storage) Save(_ context.Context, originalName string, content io.Reader) (*ports.StoredFile, error) {
	if s.SaveErr != nil {
		return nil, s.SaveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	name := uuid.New().String() + filepath.Ext(originalName)
	path := "mem/" + name
	s.mu.Lock()
	s.files[path] = data
	s.mu.Unlock()
	return &ports.StoredFile{StoredName: name, Path: path, Size: int64(len(data))}, nil
}

func (s *Storage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileMissing, path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok, nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrFileMissing, path)
	}
	delete(s.files, path)
	return nil
}

// Count número de archivos guardados.
func (s *Storage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Remove borra un archivo por fuera del puerto, para simular pérdidas en disco.
func (s *Storage) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}
