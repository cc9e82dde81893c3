package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-raid/logger"
	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// TeamService manages teams and memberships. A team always has exactly one
// member with RoleLeader, and teams.leader_id points at that member.
type TeamService struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewTeamService(db *gorm.DB, log *logger.Logger) *TeamService {
	return &TeamService{DB: db, Log: log}
}

type TeamView struct {
	models.Team
	LeaderUsername    string `json:"leader_username"`
	LeaderDisplayName string `json:"leader_display_name"`
}

type MemberView struct {
	models.TeamMember
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	TotalScore  int64  `json:"total_score"`
}

// UserTeam is a team as seen from one of its members.
type UserTeam struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	TeamScore int64  `json:"team_score"`
	Role      string `json:"role"`
}

type UpdateTeamInput struct {
	Name        *string
	Description *string
}

func normalizeTeamName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

func (s *TeamService) Create(ctx context.Context, userID, name, description string) (*models.Team, error) {
	name = normalizeTeamName(name)
	if len([]rune(name)) < 3 {
		return nil, utils.NewValidationError("name must be at least 3 characters")
	}

	team := models.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		LeaderID:    userID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTeamNameFree(tx, team.Name, team.ID); err != nil {
			return err
		}

		var err error
		if team.Slug, err = uniqueTeamSlug(tx, team.Name, team.ID); err != nil {
			return err
		}

		if err := tx.Create(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTeamNameTaken
			}
			return err
		}

		return tx.Create(&models.TeamMember{
			ID:     uuid.NewString(),
			TeamID: team.ID,
			UserID: userID,
			Role:   models.RoleLeader,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("[TEAM] created", "team_id", team.ID, "leader_id", userID)
	return &team, nil
}

// ensureTeamNameFree fails when another team, deleted ones included, already
// uses name.
func ensureTeamNameFree(tx *gorm.DB, name, teamID string) error {
	var taken int64
	if err := tx.Unscoped().Model(&models.Team{}).
		Where("name = ? AND id <> ?", name, teamID).
		Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return ErrTeamNameTaken
	}
	return nil
}

// uniqueTeamSlug derives a slug for name that no other team holds. A clash
// gets the first eight characters of the team id appended; a name with no
// sluggable characters falls back to the id itself.
func uniqueTeamSlug(tx *gorm.DB, name, teamID string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return teamID, nil
	}

	var taken int64
	if err := tx.Unscoped().Model(&models.Team{}).
		Where("slug = ? AND id <> ?", base, teamID).
		Count(&taken).Error; err != nil {
		return "", err
	}
	if taken == 0 {
		return base, nil
	}

	suffix := teamID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s-%s", base, suffix), nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (*TeamView, error) {
	var view TeamView
	result := s.DB.WithContext(ctx).Table("teams AS t").
		Select("t.*, u.username AS leader_username, u.display_name AS leader_display_name").
		Joins("JOIN users u ON u.id = t.leader_id").
		Where("t.id = ? AND t.deleted_at IS NULL", teamID).
		Limit(1).
		Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTeamNotFound
	}
	return &view, nil
}

func (s *TeamService) requireLeader(tx *gorm.DB, teamID, userID string) (*models.Team, error) {
	var team models.Team
	if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, ErrNotTeamLeader
	}
	return &team, nil
}

func (s *TeamService) Update(ctx context.Context, userID, teamID string, in UpdateTeamInput) (*models.Team, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := normalizeTeamName(*in.Name)
		if len([]rune(name)) < 3 {
			return nil, utils.NewValidationError("name must be at least 3 characters")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	var team *models.Team
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		team, err = s.requireLeader(tx, teamID, userID)
		if err != nil {
			return err
		}

		if name, ok := updates["name"].(string); ok {
			if name == team.Name {
				delete(updates, "name")
			} else {
				if err := ensureTeamNameFree(tx, name, teamID); err != nil {
					return err
				}
				if updates["slug"], err = uniqueTeamSlug(tx, name, teamID); err != nil {
					return err
				}
			}
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(team).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTeamNameTaken
			}
			return err
		}
		return tx.First(team, "id = ?", teamID).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes every membership and soft-deletes the team.
func (s *TeamService) Delete(ctx context.Context, userID, teamID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := s.requireLeader(tx, teamID, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(team).Error; err != nil {
			return err
		}
		s.Log.Info("[TEAM] deleted", "team_id", teamID, "by", userID)
		return nil
	})
}

func memberRole(tx *gorm.DB, teamID, userID string) (string, error) {
	var m models.TeamMember
	err := tx.Select("role").First(&m, "team_id = ? AND user_id = ?", teamID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return m.Role, err
}

// Invite adds targetID as a plain member. Leaders and officers may invite.
func (s *TeamService) Invite(ctx context.Context, userID, teamID, targetID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := memberRole(tx, teamID, userID)
		if err != nil {
			return err
		}
		if role != models.RoleLeader && role != models.RoleOfficer {
			return ErrCannotInvite
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", targetID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return ErrUserNotFound
		}

		existing, err := memberRole(tx, teamID, targetID)
		if err != nil {
			return err
		}
		if existing != "" {
			return ErrAlreadyTeamMember
		}

		member = models.TeamMember{
			ID:     uuid.NewString(),
			TeamID: teamID,
			UserID: targetID,
			Role:   models.RoleMember,
		}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyTeamMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember is leader-only; the leader can't remove themselves.
func (s *TeamService) RemoveMember(ctx context.Context, userID, teamID, targetID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireLeader(tx, teamID, userID); err != nil {
			return err
		}
		if targetID == userID {
			return ErrLeaderCannotBeRemoved
		}

		result := tx.Where("team_id = ? AND user_id = ?", teamID, targetID).Delete(&models.TeamMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

func (s *TeamService) Leave(ctx context.Context, userID, teamID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := memberRole(tx, teamID, userID)
		if err != nil {
			return err
		}
		if role == "" {
			return ErrMemberNotFound
		}
		if role == models.RoleLeader {
			return ErrLeaderMustTransfer
		}
		return tx.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{}).Error
	})
}

// TransferLeadership hands the team to another member. The previous leader
// stays on as an officer.
func (s *TeamService) TransferLeadership(ctx context.Context, userID, teamID, targetID string) error {
	if targetID == userID {
		return utils.NewValidationError("you are already the team leader")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireLeader(tx, teamID, userID); err != nil {
			return err
		}

		role, err := memberRole(tx, teamID, targetID)
		if err != nil {
			return err
		}
		if role == "" {
			return ErrMemberNotFound
		}

		// leader_id doubles as a version check against a concurrent transfer
		result := tx.Model(&models.Team{}).
			Where("id = ? AND leader_id = ?", teamID, userID).
			Update("leader_id", targetID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLeadershipChanged
		}

		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Update("role", models.RoleOfficer).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, targetID).
			Update("role", models.RoleLeader).Error; err != nil {
			return err
		}

		s.Log.Info("[TEAM] leadership transferred", "team_id", teamID, "from", userID, "to", targetID)
		return nil
	})
}

// SetMemberRole promotes or demotes between officer and member.
func (s *TeamService) SetMemberRole(ctx context.Context, userID, teamID, targetID, role string) error {
	if role != models.RoleOfficer && role != models.RoleMember {
		return utils.NewValidationError("role must be one of: officer, member")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireLeader(tx, teamID, userID); err != nil {
			return err
		}
		if targetID == userID {
			return utils.NewValidationError("use leadership transfer to change the leader's role")
		}

		result := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, targetID).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

// Members lists the roster: leader first, then officers, then members, each
// by join time.
func (s *TeamService) Members(ctx context.Context, teamID string) ([]MemberView, error) {
	members := []MemberView{}
	err := s.DB.WithContext(ctx).Table("team_members AS tm").
		Select("tm.*, u.username, u.display_name, u.avatar_url, u.total_score").
		Joins("JOIN users u ON u.id = tm.user_id").
		Where("tm.team_id = ?", teamID).
		Order("CASE tm.role WHEN 'leader' THEN 1 WHEN 'officer' THEN 2 ELSE 3 END").
		Order("tm.joined_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *TeamService) UserTeams(ctx context.Context, userID string) ([]UserTeam, error) {
	return userTeams(s.DB.WithContext(ctx), userID)
}

func userTeams(db *gorm.DB, userID string) ([]UserTeam, error) {
	teams := []UserTeam{}
	err := db.Table("teams AS t").
		Select("t.id, t.name, t.slug, t.team_score, tm.role").
		Joins("JOIN team_members tm ON tm.team_id = t.id").
		Where("tm.user_id = ? AND t.deleted_at IS NULL", userID).
		Order("t.name ASC").
		Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}
