package main

import (
	"fmt"
	"log"
	"time"

	"warehouse-grid/internal/common/config"
	"warehouse-grid/internal/common/health"
	"warehouse-grid/internal/common/logging"
	"warehouse-grid/internal/common/middleware"
	"warehouse-grid/internal/gateway/handlers"
	"warehouse-grid/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	warehouses := proxy.New(cfg.WarehouseURL, time.Duration(cfg.UpstreamTimeout)*time.Second, logger)
	swagger := handlers.NewSwagger("docs/warehouse.openapi.yaml")

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("gateway"))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe(warehouses))
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", swagger.UI)
	app.Get("/docs/openapi.yaml", swagger.Spec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Warehouse API v1",
			"status":  "ok",
		})
	})

	// Warehouse Service
	api.Post("/warehouses", warehouses.To("/warehouses"))
	api.Get("/warehouses", warehouses.To("/warehouses"))
	api.All("/warehouses/*", warehouses.Wildcard("/warehouses"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting API gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("warehouse_url", cfg.WarehouseURL))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
