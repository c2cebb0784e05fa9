package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger — зависимость, которую проверяет readiness (БД журнала, upstream).
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда все зависимости отвечают.
func ReadinessProbe(deps ...Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		for _, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "not ready",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
