package dto

import "time"

// CatalogRequest entrada para crear o actualizar un tipo, estado o ubicación.
type CatalogRequest struct {
	Name        string `json:"nombre" validate:"required,min=1,max=100"`
	Description string `json:"descripcion" validate:"max=255"`
}

// CatalogResponse salida de una fila de catálogo.
type CatalogResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
