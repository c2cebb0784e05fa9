package main

import (
	"context"
	"fmt"
	"time"

	"warehouse-grid/internal/common/config"
	"warehouse-grid/internal/common/health"
	"warehouse-grid/internal/common/logging"
	"warehouse-grid/internal/common/middleware"
	"warehouse-grid/internal/warehouse/handlers"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/repository"
	"warehouse-grid/internal/warehouse/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultPort = "3003"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the warehouse HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.WithPort(defaultPort))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	journal := repository.New(db)
	if err := journal.Init(context.Background(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	registry := service.NewRegistry(models.Layout{ShelfSize: cfg.ShelfSize, Spacing: cfg.Spacing})
	warehouseHandler := handlers.NewWarehouseHandler(registry, journal, logger, cfg.MaxCells)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Warehouse Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("warehouse"))
	app.Use(middleware.CORS())
	app.Use(middleware.Compress())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe(journal))

	// ============================================================
	// Warehouse Routes
	// ============================================================

	warehouseHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting warehouse service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("db", cfg.DBPath))

	return app.Listen(addr)
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}
