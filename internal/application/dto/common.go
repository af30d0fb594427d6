package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/tesa-inventario/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageRequest paginación para listados (?page=&limit=).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto: page=1, limit=10, limit máximo 100.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = defaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset desplazamiento SQL para la página actual.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula totalPages a partir del total de registros.
func NewPagination(p PageRequest, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// Page resultado paginado de un caso de uso.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Envelope forma común de todas las respuestas HTTP.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Code       string      `json:"code,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserSummaryResponse usuario embebido en otras respuestas.
type UserSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EquipmentSummaryResponse equipo embebido en otras respuestas.
type EquipmentSummaryResponse struct {
	ID            string `json:"id"`
	InventoryCode string `json:"codigo_inventario"`
	Name          string `json:"nombre"`
}

const dateLayout = "2006-01-02"

// ParseDateRange interpreta desde/hasta en formato YYYY-MM-DD. hasta incluye el día completo.
func ParseDateRange(desde, hasta string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if desde != "" {
		t, err := time.Parse(dateLayout, desde)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha desde %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, desde)
		}
		from = &t
	}
	if hasta != "" {
		t, err := time.Parse(dateLayout, hasta)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha hasta %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, hasta)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}
