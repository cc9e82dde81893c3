package handlers

import (
	"recipe-raid/middleware"
	"recipe-raid/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router, requireUser fiber.Handler, userService *services.UserService) {
	users := api.Group("/users", requireUser)

	users.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := userService.Stats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(stats)
	})

	users.Get("/search", func(c *fiber.Ctx) error {
		list, err := userService.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 50))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"users": list})
	})
}
