// middleware/auth.go
package middleware

import (
	"strings"

	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID    = "user_id"
	LocalUsername  = "username"
	LocalIsPremium = "is_premium"
)

var (
	errNoToken         = fiber.NewError(fiber.StatusUnauthorized, "No token provided")
	errInvalidToken    = fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	errPremiumRequired = fiber.NewError(fiber.StatusForbidden, "Premium subscription required")
)

// JWTAuth resolves the bearer token to a user and stores the identity in
// c.Locals for handlers.
func JWTAuth(tokens *utils.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		raw := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || raw == authHeader || raw == "" {
			return errNoToken
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return errInvalidToken
		}

		c.Locals(LocalUserID, claims.ID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalIsPremium, claims.IsPremium)
		return c.Next()
	}
}

// RequirePremium must run after JWTAuth.
func RequirePremium() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if premium, _ := c.Locals(LocalIsPremium).(bool); !premium {
			return errPremiumRequired
		}
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
