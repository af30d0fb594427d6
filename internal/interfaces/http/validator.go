package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// Validator envuelve validator.Validate con las reglas de enumeraciones del dominio.
type Validator struct {
	v *validator.Validate
}

// enumRules etiqueta de validación → pertenencia al enum.
var enumRules = map[string]func(string) bool{
	"rol":                  func(s string) bool { return entity.Role(s).Valid() },
	"solicitud_tipo":       func(s string) bool { return entity.SolicitudTipo(s).Valid() },
	"solicitud_estado":     func(s string) bool { return entity.SolicitudEstado(s).Valid() },
	"mantenimiento_tipo":   func(s string) bool { return entity.MantenimientoTipo(s).Valid() },
	"mantenimiento_estado": func(s string) bool { return entity.MantenimientoEstado(s).Valid() },
	"alerta_tipo":          func(s string) bool { return entity.AlertaTipo(s).Valid() },
	"alerta_prioridad":     func(s string) bool { return entity.AlertaPrioridad(s).Valid() },
	"alerta_estado":        func(s string) bool { return entity.AlertaEstado(s).Valid() },
	"reporte_tipo":         func(s string) bool { return entity.ReporteTipo(s).Valid() },
	"reporte_formato":      func(s string) bool { return entity.ReporteFormato(s).Valid() },
}

// NewValidator registra las reglas una sola vez. Falla al arrancar si alguna no se registra.
func NewValidator() *Validator {
	v := validator.New()
	// Los errores nombran el campo como aparece en JSON / query, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	for tag, valid := range enumRules {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic("registrar validación " + tag + ": " + err.Error())
		}
	}
	return &Validator{v: v}
}

// Struct valida s y traduce los fallos a domain.ErrInvalidInput nombrando los campos.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("el campo '%s' es obligatorio", fe.Field())
	case "email":
		return fmt.Sprintf("el campo '%s' debe ser un email válido", fe.Field())
	case "uuid":
		return fmt.Sprintf("el campo '%s' debe ser un UUID", fe.Field())
	case "min", "max":
		return fmt.Sprintf("el campo '%s' no cumple '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
	}
	if _, ok := enumRules[fe.Tag()]; ok {
		return fmt.Sprintf("el campo '%s' tiene un valor no permitido para %s", fe.Field(), fe.Tag())
	}
	return fmt.Sprintf("el campo '%s' no pasó la validación '%s'", fe.Field(), fe.Tag())
}

// bindJSON decodifica el cuerpo y lo valida.
func (val *Validator) bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return val.Struct(out)
}

// bindQuery decodifica la query string y la valida.
func (val *Validator) bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput)
	}
	return val.Struct(out)
}

// pageRequest lee page/limit; valores fuera de rango se normalizan.
func pageRequest(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 10)}
	p.Normalize()
	return p
}
