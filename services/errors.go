package services

import (
	"github.com/gofiber/fiber/v2"
)

// Errors returned to callers as-is. Anything else a service returns is an
// unexpected storage failure and is rendered as a generic 500.
var (
	ErrNotTeamMember      = fiber.NewError(fiber.StatusForbidden, "You are not a member of this team")
	ErrNotParticipant     = fiber.NewError(fiber.StatusForbidden, "You are not a participant in this raid")
	ErrBossNotFound       = fiber.NewError(fiber.StatusNotFound, "Boss not found")
	ErrRaidNotFound       = fiber.NewError(fiber.StatusNotFound, "Raid not found")
	ErrRaidNotCompletable = fiber.NewError(fiber.StatusBadRequest, "Raid not found or already completed")
	ErrRaidNotAbandonable = fiber.NewError(fiber.StatusBadRequest, "Raid not found or cannot be abandoned")
	ErrRaidNotJoinable    = fiber.NewError(fiber.StatusBadRequest, "Only team raids can be joined")
	ErrRaidNotActive      = fiber.NewError(fiber.StatusBadRequest, "Raid is not active")
	ErrAlreadyParticipant = fiber.NewError(fiber.StatusBadRequest, "Already a participant in this raid")

	ErrUserNotFound       = fiber.NewError(fiber.StatusNotFound, "User not found")
	ErrUserExists         = fiber.NewError(fiber.StatusBadRequest, "User already exists")
	ErrInvalidLogin       = fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	ErrNothingToUpdate    = fiber.NewError(fiber.StatusBadRequest, "No fields to update")
	ErrPremiumRequired    = fiber.NewError(fiber.StatusForbidden, "Premium subscription required for this ingredient")
	ErrIngredientExists   = fiber.NewError(fiber.StatusBadRequest, "Ingredient already exists")
	ErrIngredientNotFound = fiber.NewError(fiber.StatusNotFound, "Ingredient not found")

	ErrTeamNotFound          = fiber.NewError(fiber.StatusNotFound, "Team not found")
	ErrTeamNameTaken         = fiber.NewError(fiber.StatusBadRequest, "Team name already exists")
	ErrNotTeamLeader         = fiber.NewError(fiber.StatusForbidden, "Only team leader can perform this action")
	ErrCannotInvite          = fiber.NewError(fiber.StatusForbidden, "Only team leaders and officers can invite members")
	ErrAlreadyTeamMember     = fiber.NewError(fiber.StatusBadRequest, "User is already a team member")
	ErrMemberNotFound        = fiber.NewError(fiber.StatusNotFound, "Member not found")
	ErrLeaderCannotBeRemoved = fiber.NewError(fiber.StatusBadRequest, "Leader cannot be removed")
	ErrLeaderMustTransfer    = fiber.NewError(fiber.StatusBadRequest, "Team leader must transfer leadership before leaving")
	ErrLeadershipChanged     = fiber.NewError(fiber.StatusConflict, "Team leadership changed, please retry")

	ErrInvalidLeaderboardType   = fiber.NewError(fiber.StatusBadRequest, "Invalid leaderboard type")
	ErrInvalidLeaderboardPeriod = fiber.NewError(fiber.StatusBadRequest, "Invalid leaderboard period")
)
