// handlers/app.go
package handlers

import (
	"time"

	"recipe-raid/logger"
	"recipe-raid/middleware"
	"recipe-raid/services"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

type AppConfig struct {
	AllowedOrigins  string
	ServiceToken    string
	RateLimitMax    int
	RateLimitWindow time.Duration
	UploadDir       string // served under /uploads when set
	BodyLimit       int
}

type Services struct {
	Auth        *services.AuthService
	Raids       *services.RaidService
	Bosses      *services.BossService
	Teams       *services.TeamService
	Leaderboard *services.LeaderboardService
	Ingredients *services.IngredientService
	Users       *services.UserService
	Tokens      *utils.TokenIssuer
}

// NewApp builds the fiber app with every route mounted under /api.
func NewApp(cfg AppConfig, svc Services, log *logger.Logger) *fiber.App {
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 10 * 1024 * 1024 // photo uploads
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Service-Token",
		AllowCredentials: cfg.AllowedOrigins != "*",
		MaxAge:           86400,
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC()})
	})

	if cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir)
	}

	api := app.Group("/api")
	if cfg.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
			},
		}))
	}

	requireUser := middleware.JWTAuth(svc.Tokens)

	SetupAuthRoutes(api, requireUser, svc.Auth)
	SetupRaidRoutes(api, requireUser, svc.Raids, svc.Bosses)
	SetupTeamRoutes(api, requireUser, svc.Teams)
	SetupLeaderboardRoutes(api, requireUser, svc.Leaderboard)
	SetupIngredientRoutes(api, requireUser, svc.Ingredients)
	SetupUserRoutes(api, requireUser, svc.Users)
	SetupAdminRoutes(api, middleware.ServiceTokenMiddleware(cfg.ServiceToken, log), svc.Auth, svc.Bosses, svc.Ingredients)

	return app
}

// bind parses the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return utils.NewValidationError("invalid request body")
	}
	return utils.ValidateStruct(dst)
}

// uuidParam returns the named path parameter, or a validation error when it
// isn't a UUID, so malformed ids never reach the database.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", utils.NewValidationError("%s must be a valid UUID", name)
	}
	return id, nil
}
