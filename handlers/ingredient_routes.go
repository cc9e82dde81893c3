package handlers

import (
	"strconv"

	"recipe-raid/middleware"
	"recipe-raid/services"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
)

type addToPantryRequest struct {
	IngredientID string `json:"ingredientId" validate:"required,uuid"`
	Quantity     *int   `json:"quantity" validate:"omitempty,min=1"`
}

func SetupIngredientRoutes(api fiber.Router, requireUser fiber.Handler, ingredientService *services.IngredientService) {
	ingredients := api.Group("/ingredients", requireUser)

	ingredients.Get("/", func(c *fiber.Ctx) error {
		filter := services.IngredientFilter{
			Category: c.Query("category"),
			Rarity:   c.Query("rarity"),
		}
		if raw := c.Query("isPremium"); raw != "" {
			premium, err := strconv.ParseBool(raw)
			if err != nil {
				return utils.NewValidationError("isPremium must be true or false")
			}
			filter.IsPremium = &premium
		}

		list, err := ingredientService.List(c.UserContext(), filter)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ingredients": list})
	})

	ingredients.Get("/pantry", func(c *fiber.Ctx) error {
		pantry, err := ingredientService.Pantry(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"pantry": pantry})
	})

	ingredients.Post("/pantry", func(c *fiber.Ctx) error {
		var req addToPantryRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		item, err := ingredientService.AddToPantry(c.UserContext(), middleware.UserID(c), req.IngredientID, quantity)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"pantryItem": item})
	})
}
