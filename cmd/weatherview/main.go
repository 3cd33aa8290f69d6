package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weatherview/internal/api/http"
	"github.com/i474232898/weatherview/internal/config"
	"github.com/i474232898/weatherview/internal/favorites"
	"github.com/i474232898/weatherview/internal/scheduler"
	"github.com/i474232898/weatherview/internal/store"
	"github.com/i474232898/weatherview/internal/weather"
	"github.com/i474232898/weatherview/internal/weather/providers"
	"github.com/i474232898/weatherview/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var provider weather.Provider = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	if cfg.GeocoderAPIKey != "" {
		provider = providers.NewGoogleGeocoderFallback(provider, cfg.GeocoderAPIKey)
	}
	provider = providers.NewRateLimited(provider, cfg.ProviderRPS, cfg.ProviderBurst)

	kv := openFavoritesKV(cfg, log)
	defer kv.Close()

	favs := favorites.NewStore(kv, log)
	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	loaded := favs.Load(startCtx)
	cancelStart()
	log.Info("favorites loaded", "count", len(loaded), "backend", cfg.FavoritesBackend)

	session := weather.NewSession(provider, log)

	// Default place; failures leave the session selected so retry works.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := session.Select(ctx, cfg.DefaultPlace); err != nil {
			log.Warn("default location lookup failed", "place", cfg.DefaultPlace.Name, "error", err)
		}
	}()

	sched := scheduler.New(session, cfg.RefreshInterval, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherview",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherview",
		})
	})

	httpapi.RegisterRoutes(app, session, favs)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

// openFavoritesKV opens the configured backend, falling back to memory when it is unavailable.
func openFavoritesKV(cfg *config.AppConfig, log *slog.Logger) store.KV {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.FavoritesBackend {
	case config.BackendSQLite:
		kv, err := store.OpenSQLite(ctx, cfg.FavoritesDBPath)
		if err != nil {
			log.Error("failed to open sqlite favorites store, falling back to memory", "path", cfg.FavoritesDBPath, "error", err)
			return store.NewMemoryKV()
		}
		return kv
	case config.BackendValkey:
		kv, err := store.DialValkey(ctx, cfg.ValkeyAddr, "weatherview")
		if err != nil {
			log.Error("failed to connect to valkey, falling back to memory", "addr", cfg.ValkeyAddr, "error", err)
			return store.NewMemoryKV()
		}
		return kv
	default:
		return store.NewMemoryKV()
	}
}
