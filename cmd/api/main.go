package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-pallets/internal/application/composition"
	"github.com/jhoicas/Inventario-pallets/internal/application/packaging"
	domcomposition "github.com/jhoicas/Inventario-pallets/internal/domain/composition"
	infrapdf "github.com/jhoicas/Inventario-pallets/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-pallets/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-pallets/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pallets/pkg/config"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
	"github.com/jhoicas/Inventario-pallets/pkg/metrics"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	productRepo := postgres.NewProductRepository(pool)
	palletRepo := postgres.NewPalletRepository(pool)
	packagingRepo := postgres.NewPackagingTypeRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	compositionRepo := postgres.NewCompositionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	packagingUC := packaging.NewPackagingUseCase(packagingRepo)
	stockUC := packaging.NewStockUseCase(packagingRepo, inventoryRepo)
	pickingUC := packaging.NewPickingUseCase(stockUC)

	plannerOpts := domcomposition.Options{
		MaxArrangementItems: cfg.Planner.MaxArrangementItems,
		NearCapacity:        cfg.Planner.NearCapacity,
		LowEfficiency:       cfg.Planner.LowEfficiency,
	}
	plannerUC := composition.NewPlannerUseCase(productRepo, palletRepo, packagingRepo, plannerOpts, recorder)
	lifecycleUC := composition.NewLifecycleUseCase(
		plannerUC, compositionRepo, packagingRepo, txRunner,
		infrapdf.NewMarotoReportRenderer(cfg.App.Name), log.Component("composition"), recorder,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	httpLog := log.Component("http")
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs (generar con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Pallets API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PackagingUC: packagingUC,
		StockUC:     stockUC,
		PickingUC:   pickingUC,
		PlannerUC:   plannerUC,
		LifecycleUC: lifecycleUC,
		Logger:      httpLog,
		JWTSecret:   cfg.JWT.Secret,
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
