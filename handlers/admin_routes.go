package handlers

import (
	"recipe-raid/services"

	"github.com/gofiber/fiber/v2"
)

type createBossRequest struct {
	Name                string   `json:"name" validate:"required,max=200"`
	Description         string   `json:"description"`
	Difficulty          string   `json:"difficulty" validate:"required,oneof=easy medium hard legendary"`
	DifficultyLevel     int      `json:"difficultyLevel" validate:"omitempty,min=1,max=10"`
	CuisineType         string   `json:"cuisineType" validate:"max=50"`
	PrepTimeMinutes     int      `json:"prepTimeMinutes" validate:"min=0"`
	CookTimeMinutes     int      `json:"cookTimeMinutes" validate:"min=0"`
	Servings            int      `json:"servings" validate:"min=0"`
	BaseScore           int      `json:"baseScore" validate:"min=0"`
	RequiredIngredients []string `json:"requiredIngredients"`
	Instructions        []string `json:"instructions"`
}

type createIngredientRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Category      string `json:"category" validate:"max=50"`
	Rarity        string `json:"rarity" validate:"omitempty,oneof=common uncommon rare epic legendary"`
	IsPremium     bool   `json:"isPremium"`
	PowerUpEffect string `json:"powerUpEffect"`
}

type grantPremiumRequest struct {
	Days int `json:"days" validate:"required,min=1,max=3650"`
}

// SetupAdminRoutes mounts catalog and subscription management behind the
// service token.
func SetupAdminRoutes(api fiber.Router, requireService fiber.Handler, authService *services.AuthService, bossService *services.BossService, ingredientService *services.IngredientService) {
	admin := api.Group("/admin", requireService)

	admin.Post("/bosses", func(c *fiber.Ctx) error {
		var req createBossRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		boss, err := bossService.Create(c.UserContext(), services.CreateBossInput{
			Name:                req.Name,
			Description:         req.Description,
			Difficulty:          req.Difficulty,
			DifficultyLevel:     req.DifficultyLevel,
			CuisineType:         req.CuisineType,
			PrepTimeMinutes:     req.PrepTimeMinutes,
			CookTimeMinutes:     req.CookTimeMinutes,
			Servings:            req.Servings,
			BaseScore:           req.BaseScore,
			RequiredIngredients: req.RequiredIngredients,
			Instructions:        req.Instructions,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"boss": boss})
	})

	admin.Post("/ingredients", func(c *fiber.Ctx) error {
		var req createIngredientRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ingredient, err := ingredientService.Create(c.UserContext(), services.CreateIngredientInput{
			Name:          req.Name,
			Category:      req.Category,
			Rarity:        req.Rarity,
			IsPremium:     req.IsPremium,
			PowerUpEffect: req.PowerUpEffect,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ingredient": ingredient})
	})

	admin.Post("/users/:userId/premium", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		var req grantPremiumRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		user, err := authService.GrantPremium(c.UserContext(), userID, req.Days)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": user})
	})
}
