package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/seasonal-baseline/internal/api/http"
	"github.com/i474232898/seasonal-baseline/internal/config"
	"github.com/i474232898/seasonal-baseline/internal/observability"
	"github.com/i474232898/seasonal-baseline/internal/scheduler"
	"github.com/i474232898/seasonal-baseline/internal/store"
	"github.com/i474232898/seasonal-baseline/internal/weather"
	"github.com/i474232898/seasonal-baseline/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	datasets, closeStore, err := newDatasetStore(cfg)
	if err != nil {
		log.Fatalf("failed to open dataset store: %v", err)
	}
	defer closeStore()

	// Monitor history with configured retention.
	checks := store.NewMemoryCheckStore(cfg.StoreMaxHistory, cfg.StoreMaxAge, nil)

	// Live provider with resilience (backoff + circuit breaker).
	provider, err := providers.New(httpClient, providers.Settings{
		Name:              cfg.LiveProvider,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
		GeocoderAPIKey:    cfg.GeocoderAPIKey,
		MaxRetries:        cfg.ProviderMaxRetries,
	})
	if err != nil {
		log.Fatalf("failed to configure live provider: %v", err)
	}

	service := weather.NewService(datasets, checks, provider, observability.NewMetrics())

	// Historical dataset preloaded at startup; the live monitor runs against it.
	if cfg.HistoricalCSV != "" {
		datasetID, err := preload(service, cfg.HistoricalCSV)
		if err != nil {
			log.Fatalf("failed to import %s: %v", cfg.HistoricalCSV, err)
		}

		if len(cfg.MonitorCities) > 0 {
			sched := scheduler.New(cfg.MonitorCities, cfg.MonitorInterval, datasetID, service)
			if err := sched.Start(); err != nil {
				log.Fatalf("failed to start scheduler: %v", err)
			}
			defer sched.Stop()
		}
	} else if len(cfg.MonitorCities) > 0 {
		log.Printf("INFO: MONITOR_CITIES set without HISTORICAL_CSV; live monitor disabled")
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "seasonal-baseline",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		BodyLimit:             64 * 1024 * 1024,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "seasonal-baseline",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service, cfg.DefaultWindow)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func newDatasetStore(cfg *config.AppConfig) (weather.DatasetStore, func(), error) {
	if cfg.StoreBackend == "sqlite" {
		s, err := store.NewSQLiteDatasetStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Printf("ERROR: closing sqlite store: %v", err)
			}
		}, nil
	}
	return store.NewMemoryDatasetStore(cfg.StoreMaxDatasets), func() {}, nil
}

func preload(service *weather.Service, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	report, err := service.ImportCSV(filepath.Base(path), f)
	if err != nil {
		return "", err
	}
	log.Printf("INFO: preloaded dataset %s (%d rows, %d dropped, cities: %v)",
		report.Dataset.ID, report.Dataset.Rows, report.Dataset.Dropped, report.Dataset.Cities)
	return report.Dataset.ID, nil
}
