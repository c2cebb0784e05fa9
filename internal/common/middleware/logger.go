package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет access-лог; тег сервиса помогает различать gateway и warehouse в общем выводе.
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] [" + service + "] ${status} - ${latency} ${method} ${path}?${queryParams}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
