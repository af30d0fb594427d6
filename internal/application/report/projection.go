package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// chunk tamaño de página con el que se recorren los repositorios al proyectar.
const chunk = 200

// maxRows tope de filas por reporte.
const maxRows = 10000

const dateFmt = "2006-01-02"

func fmtDate(t time.Time) string { return t.Format(dateFmt) }

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFmt)
}

// collect recorre un listado paginado hasta agotar el total o llegar a maxRows.
func collect[T any](ctx context.Context, list func(ctx context.Context, limit, offset int) ([]T, int, error)) ([]T, error) {
	var out []T
	for offset := 0; offset < maxRows; offset += chunk {
		page, total, err := list(ctx, chunk, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < chunk || len(out) >= total {
			break
		}
	}
	return out, nil
}

type projector func(ctx context.Context, filtros map[string]string) (*ports.ReportTable, error)

func (uc *UseCase) projector(tipo entity.ReporteTipo) projector {
	switch tipo {
	case entity.ReporteInventario:
		return uc.inventario
	case entity.ReporteMantenimientos:
		return uc.mantenimientos
	case entity.ReporteMovimientos:
		return uc.movimientos
	case entity.ReporteSolicitudes:
		return uc.solicitudesTable
	}
	return nil
}

func subtitle(filtros map[string]string) string {
	if len(filtros) == 0 {
		return "Sin filtros"
	}
	keys := make([]string, 0, len(filtros))
	for k := range filtros {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := "Filtros:"
	for _, k := range keys {
		s += fmt.Sprintf(" %s=%s", k, filtros[k])
	}
	return s
}

func (uc *UseCase) inventario(ctx context.Context, f map[string]string) (*ports.ReportTable, error) {
	filter := repository.EquipmentFilter{
		TypeID:         f["tipo_id"],
		StatusID:       f["estado_id"],
		LocationID:     f["ubicacion_id"],
		AssignedUserID: f["usuario_asignado_id"],
		Search:         f["buscar"],
	}
	list, err := collect(ctx, func(ctx context.Context, limit, offset int) ([]*entity.EquipmentDetail, int, error) {
		return uc.equipment.List(ctx, filter, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	t := &ports.ReportTable{
		Title:   "Inventario de equipos",
		Columns: []string{"Código", "Nombre", "Marca", "Modelo", "Serie", "Tipo", "Estado", "Ubicación", "Asignado a", "Costo"},
	}
	for _, e := range list {
		assigned := ""
		if e.AssignedUser != nil {
			assigned = e.AssignedUser.Name
		}
		t.Rows = append(t.Rows, []string{
			e.InventoryCode, e.Name, e.Brand, e.Model, e.SerialNumber,
			e.TypeName, e.StatusName, e.LocationName, assigned, e.AcquisitionCost.StringFixed(2),
		})
	}
	return t, nil
}

func (uc *UseCase) mantenimientos(ctx context.Context, f map[string]string) (*ports.ReportTable, error) {
	desde, hasta, err := dto.ParseDateRange(f["desde"], f["hasta"])
	if err != nil {
		return nil, err
	}
	filter := repository.MaintenanceFilter{
		EquipoID:  f["equipo_id"],
		TecnicoID: f["tecnico_id"],
		Estado:    entity.MantenimientoEstado(f["estado"]),
		Tipo:      entity.MantenimientoTipo(f["tipo"]),
		Desde:     desde,
		Hasta:     hasta,
	}
	list, err := collect(ctx, func(ctx context.Context, limit, offset int) ([]*entity.MaintenanceDetail, int, error) {
		return uc.maintenance.List(ctx, filter, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	t := &ports.ReportTable{
		Title:   "Mantenimientos",
		Columns: []string{"Fecha", "Equipo", "Tipo", "Estado", "Técnico", "Descripción", "Costo"},
	}
	for _, m := range list {
		t.Rows = append(t.Rows, []string{
			fmtDate(m.Fecha), m.Equipo.InventoryCode, string(m.Tipo), string(m.Estado),
			m.Tecnico.Name, m.Descripcion, m.Costo.StringFixed(2),
		})
	}
	return t, nil
}

func (uc *UseCase) movimientos(ctx context.Context, f map[string]string) (*ports.ReportTable, error) {
	desde, hasta, err := dto.ParseDateRange(f["desde"], f["hasta"])
	if err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{
		EquipoID:      f["equipo_id"],
		ResponsableID: f["responsable_id"],
		UbicacionID:   f["ubicacion_id"],
		Desde:         desde,
		Hasta:         hasta,
	}
	list, err := collect(ctx, func(ctx context.Context, limit, offset int) ([]*entity.MovementDetail, int, error) {
		return uc.movements.List(ctx, filter, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	t := &ports.ReportTable{
		Title:   "Movimientos de equipos",
		Columns: []string{"Fecha", "Equipo", "Origen", "Destino", "Responsable", "Motivo"},
	}
	for _, m := range list {
		t.Rows = append(t.Rows, []string{
			fmtDate(m.Fecha), m.Equipo.InventoryCode, m.OrigenNombre, m.DestinoNombre, m.Responsable.Name, m.Motivo,
		})
	}
	return t, nil
}

func (uc *UseCase) solicitudesTable(ctx context.Context, f map[string]string) (*ports.ReportTable, error) {
	desde, hasta, err := dto.ParseDateRange(f["desde"], f["hasta"])
	if err != nil {
		return nil, err
	}
	filter := repository.SolicitudFilter{
		SolicitanteID: f["solicitante_id"],
		EquipoID:      f["equipo_id"],
		Estado:        entity.SolicitudEstado(f["estado"]),
		Tipo:          entity.SolicitudTipo(f["tipo"]),
		Desde:         desde,
		Hasta:         hasta,
	}
	list, err := collect(ctx, func(ctx context.Context, limit, offset int) ([]*entity.SolicitudDetail, int, error) {
		return uc.solicitudes.List(ctx, filter, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	t := &ports.ReportTable{
		Title:   "Solicitudes",
		Columns: []string{"Fecha", "Tipo", "Título", "Solicitante", "Equipo", "Estado", "Respuesta", "Fecha respuesta"},
	}
	for _, s := range list {
		equipo := ""
		if s.Equipo != nil {
			equipo = s.Equipo.InventoryCode
		}
		t.Rows = append(t.Rows, []string{
			fmtDate(s.FechaSolicitud), string(s.Tipo), s.Titulo, s.Solicitante.Name,
			equipo, string(s.Estado), s.Respuesta, fmtDatePtr(s.FechaRespuesta),
		})
	}
	return t, nil
}
