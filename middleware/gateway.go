// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"strings"

	"recipe-raid/logger"

	"github.com/gofiber/fiber/v2"
)

// ServiceTokenMiddleware guards the admin routes with a shared service token
// sent as "Authorization: Bearer <token>" or X-Service-Token.
func ServiceTokenMiddleware(expectedToken string, log *logger.Logger) fiber.Handler {
	if expectedToken == "" {
		log.Warn("[SERVICE_AUTH] SERVICE_TOKEN is not set, admin routes will reject every request")
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Service-Token")
		if token == "" {
			token = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if token == "" {
			log.Warn("[SERVICE_AUTH] missing service token", "path", c.Path())
			return fiber.NewError(fiber.StatusUnauthorized, "service authentication token missing")
		}

		if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Warn("[SERVICE_AUTH] invalid service token", "path", c.Path())
			return fiber.NewError(fiber.StatusUnauthorized, "invalid service authentication token")
		}
		return c.Next()
	}
}
