package handlers

import (
	"recipe-raid/middleware"
	"recipe-raid/services"

	"github.com/gofiber/fiber/v2"
)

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type memberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=officer member"`
}

func SetupTeamRoutes(api fiber.Router, requireUser fiber.Handler, teamService *services.TeamService) {
	teams := api.Group("/teams", requireUser)

	teams.Post("/", func(c *fiber.Ctx) error {
		var req createTeamRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		team, err := teamService.Create(c.UserContext(), middleware.UserID(c), req.Name, req.Description)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"team": team})
	})

	teams.Get("/mine", func(c *fiber.Ctx) error {
		list, err := teamService.UserTeams(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"teams": list})
	})

	teams.Get("/:teamId", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		team, err := teamService.Get(c.UserContext(), teamID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"team": team})
	})

	teams.Put("/:teamId", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		var req updateTeamRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		team, err := teamService.Update(c.UserContext(), middleware.UserID(c), teamID, services.UpdateTeamInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"team": team})
	})

	teams.Delete("/:teamId", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		if err := teamService.Delete(c.UserContext(), middleware.UserID(c), teamID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Team deleted successfully"})
	})

	teams.Post("/:teamId/invite", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		var req memberRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		member, err := teamService.Invite(c.UserContext(), middleware.UserID(c), teamID, req.UserID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"member": member})
	})

	teams.Delete("/:teamId/members/:userId", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		if err := teamService.RemoveMember(c.UserContext(), middleware.UserID(c), teamID, userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Member removed successfully"})
	})

	teams.Put("/:teamId/members/:userId/role", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		var req roleRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := teamService.SetMemberRole(c.UserContext(), middleware.UserID(c), teamID, userID, req.Role); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Member role updated"})
	})

	teams.Post("/:teamId/transfer", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		var req memberRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := teamService.TransferLeadership(c.UserContext(), middleware.UserID(c), teamID, req.UserID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Leadership transferred"})
	})

	teams.Post("/:teamId/leave", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		if err := teamService.Leave(c.UserContext(), middleware.UserID(c), teamID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Left team successfully"})
	})

	teams.Get("/:teamId/members", func(c *fiber.Ctx) error {
		teamID, err := uuidParam(c, "teamId")
		if err != nil {
			return err
		}
		members, err := teamService.Members(c.UserContext(), teamID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"members": members})
	})
}
