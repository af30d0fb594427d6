package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tesa-inventario/internal/application/alert"
	"github.com/jhoicas/tesa-inventario/internal/application/attachment"
	"github.com/jhoicas/tesa-inventario/internal/application/auth"
	"github.com/jhoicas/tesa-inventario/internal/application/maintenance"
	"github.com/jhoicas/tesa-inventario/internal/application/movement"
	"github.com/jhoicas/tesa-inventario/internal/application/report"
	"github.com/jhoicas/tesa-inventario/internal/application/solicitud"
	"github.com/jhoicas/tesa-inventario/internal/application/usecase"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CatalogUC     *usecase.CatalogUseCase
	EquipmentUC   *usecase.EquipmentUseCase
	SolicitudUC   *solicitud.UseCase
	AttachmentUC  *attachment.UseCase
	MaintenanceUC *maintenance.UseCase
	MovementUC    *movement.UseCase
	AlertUC       *alert.UseCase
	ReportUC      *report.UseCase
	Validator     *Validator
	JWTSecret     string
}

// Router registra las rutas de la API bajo /api.
// Los permisos finos los decide cada caso de uso con la tabla de authz.
func Router(app *fiber.App, deps RouterDeps) {
	val := deps.Validator
	if val == nil {
		val = NewValidator()
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, val)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Usuarios (solo administrador)
	userHandler := NewUserHandler(deps.UserUC, val)
	users := protected.Group("/users", RequireRole(entity.RoleAdministrador))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id<guid>", userHandler.GetByID)
	users.Put("/:id<guid>", userHandler.Update)
	users.Delete("/:id<guid>", userHandler.Deactivate)

	// Catálogos
	catalogRoutes := map[string]entity.CatalogKind{
		"/equipment-types":    entity.CatalogEquipmentType,
		"/equipment-statuses": entity.CatalogEquipmentStatus,
		"/locations":          entity.CatalogLocation,
	}
	for prefix, kind := range catalogRoutes {
		h := NewCatalogHandler(deps.CatalogUC, val, kind)
		g := protected.Group(prefix)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id<guid>", h.GetByID)
		g.Put("/:id<guid>", h.Update)
		g.Delete("/:id<guid>", h.Delete)
	}

	// Equipos
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC, deps.MovementUC, val)
	equipment := protected.Group("/equipment")
	equipment.Get("/", equipmentHandler.List)
	equipment.Post("/", equipmentHandler.Create)
	equipment.Get("/:id<guid>", equipmentHandler.GetByID)
	equipment.Put("/:id<guid>", equipmentHandler.Update)
	equipment.Delete("/:id<guid>", equipmentHandler.Delete)
	equipment.Get("/:id<guid>/movements", equipmentHandler.Movements)

	// Solicitudes y adjuntos
	solicitudHandler := NewSolicitudHandler(deps.SolicitudUC, val)
	attachmentHandler := NewAttachmentHandler(deps.AttachmentUC)
	requests := protected.Group("/requests")
	requests.Get("/", solicitudHandler.List)
	requests.Post("/", solicitudHandler.Create)
	requests.Get("/:id<guid>", solicitudHandler.GetByID)
	requests.Put("/:id<guid>", solicitudHandler.Update)
	requests.Delete("/:id<guid>", solicitudHandler.Delete)
	requests.Patch("/:id<guid>/respond", solicitudHandler.Respond)
	requests.Get("/:id<guid>/attachments", attachmentHandler.List)
	requests.Post("/:id<guid>/attachments", attachmentHandler.Upload)

	attachments := protected.Group("/attachments")
	attachments.Get("/:id<guid>", attachmentHandler.Download)
	attachments.Delete("/:id<guid>", attachmentHandler.Delete)

	// Mantenimientos (:id solo acepta UUID, /stats no choca)
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceUC, val)
	maint := protected.Group("/maintenance")
	maint.Get("/", maintenanceHandler.List)
	maint.Post("/", maintenanceHandler.Create)
	maint.Get("/stats", maintenanceHandler.Stats)
	maint.Get("/:id<guid>", maintenanceHandler.GetByID)
	maint.Put("/:id<guid>", maintenanceHandler.Update)
	maint.Delete("/:id<guid>", maintenanceHandler.Delete)

	// Movimientos
	movementHandler := NewMovementHandler(deps.MovementUC, val)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Get("/:id<guid>", movementHandler.GetByID)
	movements.Put("/:id<guid>", movementHandler.Update)
	movements.Delete("/:id<guid>", movementHandler.Delete)

	// Alertas
	alertHandler := NewAlertHandler(deps.AlertUC, val)
	alerts := protected.Group("/alerts")
	alerts.Get("/", alertHandler.List)
	alerts.Post("/", alertHandler.Create)
	alerts.Get("/:id<guid>", alertHandler.GetByID)
	alerts.Put("/:id<guid>", alertHandler.Update)
	alerts.Delete("/:id<guid>", alertHandler.Delete)
	alerts.Patch("/:id<guid>/read", alertHandler.MarkRead)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, val)
	reports := protected.Group("/reports")
	reports.Get("/", reportHandler.List)
	reports.Post("/", reportHandler.Generate)
	reports.Get("/:id<guid>/download", reportHandler.Download)
	reports.Delete("/:id<guid>", reportHandler.Delete)
}
