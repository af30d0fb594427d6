package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/tesa-inventario/internal/application/alert"
	"github.com/jhoicas/tesa-inventario/internal/application/attachment"
	"github.com/jhoicas/tesa-inventario/internal/application/auth"
	"github.com/jhoicas/tesa-inventario/internal/application/maintenance"
	"github.com/jhoicas/tesa-inventario/internal/application/movement"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/application/report"
	"github.com/jhoicas/tesa-inventario/internal/application/solicitud"
	"github.com/jhoicas/tesa-inventario/internal/application/usecase"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/tesa-inventario/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/tesa-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/tesa-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/tesa-inventario/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/tesa-inventario/internal/interfaces/http"
	"github.com/jhoicas/tesa-inventario/pkg/config"
	"github.com/jhoicas/tesa-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	uploads, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de adjuntos")
	}
	reportFiles, err := storage.NewLocalStorage(cfg.Storage.ReportsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de reportes")
	}

	userRepo := postgres.NewUserRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	equipmentRepo := postgres.NewEquipmentRepository(pool)
	solicitudRepo := postgres.NewSolicitudRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bloqueo de login: Redis si está configurado (compartido entre réplicas), si no en memoria.
	guardCfg := cache.GuardConfig{MaxAttempts: cfg.Redis.MaxAttempts, Lockout: cfg.Redis.Lockout()}
	var guard ports.LoginGuard = cache.NewMemoryLoginGuard(guardCfg)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, bloqueo de login en memoria")
		} else {
			guard = cache.NewRedisLoginGuard(redisClient, guardCfg)
		}
	}

	authUC := auth.NewAuthUseCase(userRepo, guard, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	renderers := map[entity.ReporteFormato]ports.ReportRenderer{
		entity.FormatoPDF:   infrapdf.NewMarotoReportRenderer(cfg.App.Name),
		entity.FormatoExcel: infraexcel.NewExcelizeReportRenderer(),
	}
	reportUC := report.New(reportRepo, report.Sources{
		Equipment:   equipmentRepo,
		Maintenance: maintenanceRepo,
		Movements:   movementRepo,
		Solicitudes: solicitudRepo,
		Users:       userRepo,
	}, renderers, reportFiles, log.Component("reportes"))

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		Production:  cfg.App.IsProduction(),
		BodyLimitMB: cfg.HTTP.BodyLimitMB,
		SwaggerFile: "./docs/swagger.json",
	}, log.Component("http"))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo),
		CatalogUC:     usecase.NewCatalogUseCase(catalogRepo, equipmentRepo),
		EquipmentUC:   usecase.NewEquipmentUseCase(equipmentRepo, catalogRepo, userRepo),
		SolicitudUC:   solicitud.New(solicitudRepo, equipmentRepo, txRunner, uploads, log.Component("solicitudes")),
		AttachmentUC:  attachment.New(attachmentRepo, solicitudRepo, uploads, int64(cfg.Storage.UploadMaxMB)<<20, log.Component("adjuntos")),
		MaintenanceUC: maintenance.New(maintenanceRepo, equipmentRepo, userRepo, txRunner, log.Component("mantenimientos")),
		MovementUC:    movement.New(movementRepo, equipmentRepo, catalogRepo, txRunner, log.Component("movimientos")),
		AlertUC:       alert.New(alertRepo, equipmentRepo, solicitudRepo, maintenanceRepo, userRepo, log.Component("alertas")),
		ReportUC:      reportUC,
		Validator:     httpRouter.NewValidator(),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
