package middleware

import (
	"crypto/subtle"
	"strings"

	"game-night-service/logger"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware accepts only requests carrying the gateway's token,
// either as "Bearer <token>" or raw. An empty token disables the check.
func GatewayAuthMiddleware(expectedToken string, log *logger.Logger) fiber.Handler {
	if expectedToken == "" {
		log.Warn("⚠️ GATEWAY_TOKEN is not set, gateway authentication disabled")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Warn("🚫 missing Authorization header", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
				"code":  "UNAUTHORIZED",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Warn("❌ invalid gateway token", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
				"code":  "UNAUTHORIZED",
			})
		}
		return c.Next()
	}
}
