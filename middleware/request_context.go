package middleware

import (
	"time"

	"game-night-service/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	// HeaderUserID is set by the gateway for signed-in callers.
	HeaderUserID = "X-User-ID"
)

// RequestContextMiddleware tags each request with an id (the caller's
// X-Request-ID or a fresh one), copies the gateway's user id into Locals and
// logs the request once it completes.
func RequestContextMiddleware(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		userID := c.Get(HeaderUserID)
		c.Locals("request_id", requestID)
		c.Locals("user_id", userID)
		c.Set(HeaderRequestID, requestID)

		err := c.Next()
		if err != nil {
			// Render now so the logged status is the one sent.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info("📨 request",
			"request_id", requestID,
			"user_id", userID,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return nil
	}
}
