package handlers

import (
	"context"
	"time"

	"game-night-service/logger"

	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupHealthRoutes registers liveness and database readiness probes. They are
// mounted ahead of the gateway middleware so probes need no token.
func SetupHealthRoutes(router fiber.Router, db Pinger, log *logger.Logger) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	router.Get("/health/db", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn("⚠️ database health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
