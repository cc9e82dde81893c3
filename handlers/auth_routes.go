package handlers

import (
	"recipe-raid/middleware"
	"recipe-raid/services"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username    string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url"`
}

func SetupAuthRoutes(api fiber.Router, requireUser fiber.Handler, authService *services.AuthService) {
	auth := api.Group("/auth")

	auth.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		user, token, err := authService.Register(c.UserContext(), services.RegisterInput{
			Username:    req.Username,
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		user, token, err := authService.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": user, "token": token})
	})

	auth.Get("/profile", requireUser, func(c *fiber.Ctx) error {
		user, err := authService.Profile(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": user})
	})

	auth.Put("/profile", requireUser, func(c *fiber.Ctx) error {
		var req updateProfileRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		user, err := authService.UpdateProfile(c.UserContext(), middleware.UserID(c), services.ProfileUpdate{
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": user})
	})
}
