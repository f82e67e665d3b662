package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/skywatch/weather-gateway/internal/api/http"
	"github.com/skywatch/weather-gateway/internal/config"
	"github.com/skywatch/weather-gateway/internal/history"
	"github.com/skywatch/weather-gateway/internal/scheduler"
	"github.com/skywatch/weather-gateway/internal/store"
	"github.com/skywatch/weather-gateway/internal/weather"
	"github.com/skywatch/weather-gateway/internal/weather/providers"
)

func main() {
	log := zap.Must(zap.NewProduction()).Sugar()
	defer log.Sync()

	// Load configuration.
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	// Shared HTTP client for outbound provider calls. Per-call deadlines
	// come from the request context, not a client-wide timeout.
	httpClient := &http.Client{}

	provider := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.UpstreamTimeout)

	// Core service issuing the paired upstream calls.
	service := weather.NewService(provider)

	// Search history persistence: Redis when configured, memory otherwise.
	var blob history.Blob
	if cfg.RedisAddr != "" {
		redisBlob, err := store.NewRedisBlob(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		blob = redisBlob
	} else {
		log.Info("REDIS_ADDR not set; search history will not survive restarts")
		blob = store.NewMemoryBlob()
	}
	defer blob.Close()

	historyStore := history.New(blob, cfg.HistoryKey, cfg.HistoryLimit, log)

	// Periodic upstream probe feeding the health endpoint.
	probe := scheduler.New(cfg.ProbeInterval, func(ctx context.Context) error {
		_, err := provider.CurrentByName(ctx, cfg.ProbeCity)
		return err
	}, log)
	if err := probe.Start(); err != nil {
		log.Fatalw("failed to start upstream probe", "error", err)
	}
	defer probe.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-gateway",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(httpapi.RequestID())
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	api := httpapi.New(service, historyStore, probe, log)
	api.RegisterRoutes(app)

	// Presentation assets, when deployed alongside the server.
	app.Static("/", cfg.StaticDir)

	// Start server with graceful shutdown
	go func() {
		log.Infow("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}
