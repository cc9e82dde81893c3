package middleware

import (
	"errors"

	"recipe-raid/logger"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"error": ..., "status": ...}.
// Anything that isn't a *fiber.Error or validation error becomes a bare 500.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			body := fiber.Map{"error": verr.Message, "status": "validation_error"}
			if len(verr.Fields) > 0 {
				body["fields"] = verr.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			if ferr.Code >= fiber.StatusInternalServerError {
				log.Error("[HTTP] server error", "method", c.Method(), "path", c.Path(), "error", ferr.Message)
			}
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message, "status": "error"})
		}

		log.Error("[HTTP] unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Internal server error",
			"status": "error",
		})
	}
}
