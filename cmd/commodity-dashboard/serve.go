package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/commodity-dashboard/internal/api/http"
	"github.com/i474232898/commodity-dashboard/internal/config"
	"github.com/i474232898/commodity-dashboard/internal/market"
	"github.com/i474232898/commodity-dashboard/internal/market/sources"
	"github.com/i474232898/commodity-dashboard/internal/observability"
	"github.com/i474232898/commodity-dashboard/internal/scheduler"
	"github.com/i474232898/commodity-dashboard/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := observability.NewLogger(cfg)
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// Shared HTTP client for the remote source.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	source := newSource(cfg, httpClient)
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := market.NewService(memStore, source, log, metrics)

	// Load the first dataset before accepting traffic. Uploads still work if it fails.
	if _, err := service.RefreshWithTimeout(context.Background()); err != nil {
		log.WithError(err).Error("initial dataset load failed")
	}

	sched := scheduler.New(cfg.RefreshInterval, service, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "commodity-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             cfg.UploadMaxBytes,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "commodity-dashboard",
			"source":  service.SourceName(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.WithField("port", cfg.Port).Info("http server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	return nil
}

// newSource picks the dataset source for DATA_MODE.
func newSource(cfg *config.AppConfig, client *http.Client) market.Source {
	switch cfg.DataMode {
	case config.ModeFile:
		return sources.NewFileSource(cfg.DataFile)
	case config.ModeRemote:
		return sources.NewRemoteSource(client, cfg.DataURL)
	default:
		return market.NewGenerator(market.DefaultCatalog(), cfg.GeneratorSeed, clockwork.NewRealClock())
	}
}
