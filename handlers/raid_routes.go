// handlers/raid_routes.go
package handlers

import (
	"recipe-raid/middleware"
	"recipe-raid/services"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
)

type startRaidRequest struct {
	BossID string  `json:"bossId" validate:"required,uuid"`
	Mode   string  `json:"mode" validate:"omitempty,oneof=solo team"`
	TeamID *string `json:"teamId" validate:"omitempty,uuid"`
}

type completeRaidRequest struct {
	Score            *int64 `json:"score" validate:"required"`
	TimeTakenMinutes *int   `json:"timeTakenMinutes" validate:"required"`
	Notes            string `json:"notes" validate:"max=1000"`
}

type photoProofRequest struct {
	PhotoURL    string `json:"photoUrl" validate:"required,url"`
	StoragePath string `json:"storagePath" validate:"required"`
}

func SetupRaidRoutes(api fiber.Router, requireUser fiber.Handler, raidService *services.RaidService, bossService *services.BossService) {
	raids := api.Group("/raids", requireUser)

	raids.Post("/start", func(c *fiber.Ctx) error {
		var req startRaidRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		raid, boss, err := raidService.Start(c.UserContext(), middleware.UserID(c), services.StartRaidInput{
			BossID: req.BossID,
			Mode:   req.Mode,
			TeamID: req.TeamID,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"raid": raid, "boss": boss})
	})

	raids.Put("/:raidId/complete", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		var req completeRaidRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		raid, err := raidService.Complete(c.UserContext(), middleware.UserID(c), raidID, services.CompleteRaidInput{
			Score:            *req.Score,
			TimeTakenMinutes: *req.TimeTakenMinutes,
			Notes:            req.Notes,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"raid": raid})
	})

	raids.Put("/:raidId/abandon", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		raid, err := raidService.Abandon(c.UserContext(), middleware.UserID(c), raidID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"raid": raid})
	})

	raids.Post("/:raidId/join", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		participant, err := raidService.Join(c.UserContext(), middleware.UserID(c), raidID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"participant": participant})
	})

	raids.Post("/:raidId/photo", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		var req photoProofRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		proof, err := raidService.AttachPhotoProof(c.UserContext(), middleware.UserID(c), raidID, req.PhotoURL, req.StoragePath)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photoProof": proof})
	})

	raids.Post("/:raidId/photo/upload", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return utils.NewValidationError("photo file is required")
		}
		proof, err := raidService.UploadPhotoProof(c.UserContext(), middleware.UserID(c), raidID, fileHeader)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photoProof": proof})
	})

	raids.Get("/my-raids", func(c *fiber.Ctx) error {
		list, err := raidService.GetUserRaids(c.UserContext(), middleware.UserID(c), c.QueryInt("limit", 50))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"raids": list})
	})

	raids.Get("/bosses", func(c *fiber.Ctx) error {
		bosses, err := bossService.List(c.UserContext(), c.Query("difficulty"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"bosses": bosses})
	})

	raids.Get("/bosses/:bossId", func(c *fiber.Ctx) error {
		bossID, err := uuidParam(c, "bossId")
		if err != nil {
			return err
		}
		boss, err := bossService.Get(c.UserContext(), bossID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"boss": boss})
	})

	raids.Get("/team/:teamId", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		list, err := raidService.GetTeamRaids(c.UserContext(), teamID, c.Query("status"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"raids": list})
	})

	raids.Get("/:raidId", func(c *fiber.Ctx) error {
		raidID, err := uuidParam(c, "raidId")
		if err != nil {
			return err
		}
		detail, err := raidService.GetDetails(c.UserContext(), raidID)
		if err != nil {
			return err
		}
		return c.JSON(detail)
	})
}
