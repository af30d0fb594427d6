// Package lifecycle define de forma declarativa las transiciones de estado y los efectos
// colaterales sobre equipos. Los casos de uso consultan estas tablas; no codifican reglas.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// SolicitudEdit describe qué intenta cambiar una edición de solicitud.
type SolicitudEdit struct {
	ContentChanged bool
	Estado         *entity.SolicitudEstado
	Respuesta      *string
}

// AuthorizeSolicitudEdit aplica la política de edición:
//   - quien no es administrador ni solicitante no edita;
//   - el solicitante (no admin) solo edita contenido y solo mientras está pendiente;
//   - el administrador edita contenido, estado (validado) y respuesta.
func AuthorizeSolicitudEdit(actor authz.Actor, s *entity.Solicitud, edit SolicitudEdit) error {
	admin := actor.Can(authz.SolicitudesEditAny)
	if !admin && actor.ID != s.SolicitanteID {
		return fmt.Errorf("%w: la solicitud pertenece a otro usuario", domain.ErrForbidden)
	}
	if !admin {
		if edit.Estado != nil || edit.Respuesta != nil {
			return fmt.Errorf("%w: solo un administrador puede cambiar estado o respuesta", domain.ErrForbidden)
		}
		if s.Estado != entity.SolicitudPendiente {
			return fmt.Errorf("%w: la solicitud ya no está pendiente", domain.ErrForbidden)
		}
		return nil
	}
	if edit.Estado != nil && !edit.Estado.Valid() {
		return fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, *edit.Estado)
	}
	return nil
}

// ApplySolicitudEstado cambia el estado. Si difiere del anterior sella resolutor y fecha
// de respuesta; devuelve true en ese caso.
func ApplySolicitudEstado(s *entity.Solicitud, next entity.SolicitudEstado, resolverID string, now time.Time) bool {
	if s.Estado == next {
		return false
	}
	s.Estado = next
	stampResolution(s, resolverID, now)
	return true
}

// RespondSolicitud es la respuesta formal del administrador: siempre sella resolutor y fecha.
func RespondSolicitud(s *entity.Solicitud, next entity.SolicitudEstado, respuesta, resolverID string, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, next)
	}
	s.Estado = next
	s.Respuesta = respuesta
	stampResolution(s, resolverID, now)
	return nil
}

func stampResolution(s *entity.Solicitud, resolverID string, now time.Time) {
	id := resolverID
	t := now
	s.ResolverID = &id
	s.FechaRespuesta = &t
}
