package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/application/auth"
	"github.com/jhoicas/Marketsync-api/internal/application/reporting"
	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
	"github.com/jhoicas/Marketsync-api/internal/application/usecase"
	"github.com/jhoicas/Marketsync-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Marketsync-api/internal/infrastructure/mws"
	infrapdf "github.com/jhoicas/Marketsync-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Marketsync-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Marketsync-api/internal/interfaces/http"
	"github.com/jhoicas/Marketsync-api/pkg/config"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	backendRepo := postgres.NewBackendRepository(pool)
	historyRepo := postgres.NewPriceHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Transporte hacia el marketplace: cliente firmado + adaptador de feeds
	mwsClient := mws.NewClient(cfg.Mws, log)
	adapter := mws.NewAdapter(mwsClient, cfg.Mws.SellerID, log)

	exportUC := appsync.NewExportUseCase(
		backendRepo, productRepo, listingRepo, txRunner, adapter,
		appsync.Config{
			BatchSize:    cfg.Sync.BatchSize,
			UnderCutStep: decimal.NewFromFloat(cfg.Sync.UnderCutStep),
		},
		log,
	)

	// Runner de exportaciones en segundo plano con reintentos clasificados
	classifier := appsync.NewRetryClassifier()
	runner := jobs.NewRunner(exportUC.Export, classifier, cfg.Sync.Workers, cfg.Sync.MaxAttempts, log)
	runner.Start(ctx)
	defer runner.Stop()

	productUC := usecase.NewProductUseCase(productRepo)
	listingUC := usecase.NewListingUseCase(listingRepo, historyRepo)
	reportUC := reporting.NewReportUseCase(listingRepo, historyRepo, infrapdf.NewMarotoPriceReport())
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Marketsync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		ListingUC: listingUC,
		ReportUC:  reportUC,
		Refresher: exportUC,
		Runner:    runner,
		JWTSecret: cfg.JWT.Secret,
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
