package handlers

import (
	"errors"

	"game-night-service/apperr"
	"game-night-service/logger"

	"github.com/gofiber/fiber/v2"
)

// writeError renders err as {"error": message, "code": code} with the status
// its kind maps to. Internal causes are logged, never returned.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	message := "internal error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) && status != fiber.StatusInternalServerError {
		message = appErr.Message
	}
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  apperr.CodeOf(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  apperr.CodeValidation,
	})
}

// ErrorHandler renders errors that escape handlers, including fiber's own
// (unknown route, body too large) in the same shape as writeError.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := apperr.CodeInternal
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = apperr.CodeNotFound
			case fe.Code < fiber.StatusInternalServerError:
				code = apperr.CodeValidation
			}
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": code})
		}
		return writeError(c, log, err)
	}
}
