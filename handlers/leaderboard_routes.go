package handlers

import (
	"recipe-raid/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(api fiber.Router, requireUser fiber.Handler, leaderboardService *services.LeaderboardService) {
	boards := api.Group("/leaderboard", requireUser)

	// registered before /:period/:type, which would otherwise swallow it
	boards.Get("/rank/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		rank, err := leaderboardService.UserRank(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": userID, "rank": rank})
	})

	boards.Get("/:period/:type", func(c *fiber.Ctx) error {
		board, err := leaderboardService.Get(c.UserContext(), c.Params("period"), c.Params("type"), c.QueryInt("limit", services.DefaultLeaderboardLimit))
		if err != nil {
			return err
		}
		return c.JSON(board)
	})
}
