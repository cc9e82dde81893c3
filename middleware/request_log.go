package middleware

import (
	"errors"
	"time"

	"recipe-raid/logger"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
)

func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var ferr *fiber.Error
			var verr *utils.ValidationError
			switch {
			case errors.As(err, &ferr):
				status = ferr.Code
			case errors.As(err, &verr):
				status = fiber.StatusBadRequest
			default:
				status = fiber.StatusInternalServerError
			}
		}

		log.Debug("[HTTP] request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
		)
		return err
	}
}
