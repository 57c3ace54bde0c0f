package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/spareparts-api/internal/application/invoice"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/application/request"
	"github.com/jhoicas/spareparts-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/spareparts-api/internal/interfaces/http"
	"github.com/jhoicas/spareparts-api/pkg/config"
	"github.com/jhoicas/spareparts-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	spareRepo := postgres.NewSpareRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	inventoryRepo := postgres.NewSpareInventoryRepository(pool)
	requestRepo := postgres.NewSpareRequestRepository(pool)
	matchRepo := postgres.NewReturnMatchRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := ledger.NewRecorder(txRunner)
	snapshotUC := ledger.NewSnapshotUseCase(inventoryRepo)
	matcher := invoice.NewFIFOMatcher()
	workflow := request.NewWorkflow(
		txRunner, recorder,
		spareRepo, locationRepo, requestRepo,
		postgres.NewApprovalRepository(pool),
	)
	returns := request.NewReturnProcessor(
		txRunner, recorder, matcher,
		spareRepo, locationRepo, requestRepo, matchRepo,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workflow:  workflow,
		Returns:   returns,
		Snapshot:  snapshotUC,
		Recorder:  recorder,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
