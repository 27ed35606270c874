package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/worldreports/internal/adapters/backend"
	"github.com/samirrijal/worldreports/internal/adapters/http"
	natsadapter "github.com/samirrijal/worldreports/internal/adapters/nats"
	"github.com/samirrijal/worldreports/internal/adapters/valkey"
	"github.com/samirrijal/worldreports/internal/core/usecases"
	"github.com/samirrijal/worldreports/internal/pkg/config"
	"github.com/samirrijal/worldreports/internal/pkg/logging"
	"github.com/samirrijal/worldreports/internal/pkg/metrics"
	"github.com/samirrijal/worldreports/internal/pkg/telemetry"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cfg, err := config.Load("worldreports-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Geography store
	store, err := backend.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer store.Close()
	slog.Info("geography store ready", "driver", store.Driver)

	var opts []usecases.ReportOption
	deps := &http.Dependencies{
		Lookups:        usecases.NewLookupService(store.Lookups),
		Store:          store,
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Version:        Version,
	}

	// NATS: report events and the WebSocket relay share one connection
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, report events disabled", "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, usecases.WithPublisher(pub))
			deps.NATS = pub.Conn()
		}
	}

	// Valkey backs the rate limiter so limits hold across replicas
	if cfg.Valkey.Enabled {
		storage, err := valkey.New(cfg.Valkey.Addr, "worldreports:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, rate limits are per process", "error", err)
		} else {
			defer storage.Close()
			deps.Cache = storage
			deps.RateStorage = storage
		}
	}

	deps.Reports = usecases.NewReportService(store.Geography, opts...)

	// Pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if stat := store.Stat(); stat != nil {
					metrics.UpdateDBPoolMetrics(stat)
				}
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // GraphQL queries only
		AppName:      "World Reports API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", Version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
