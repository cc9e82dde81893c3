package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"recipe-raid/logger"
	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RaidService owns the raid state machine: active -> completed | abandoned.
// The only concurrency guard is the conditioned UPDATE ... WHERE status =
// 'active'; whoever sees zero affected rows lost the race.
type RaidService struct {
	DB      *gorm.DB
	Cache   LeaderboardCache
	Storage utils.PhotoStorage
	Log     *logger.Logger
}

func NewRaidService(db *gorm.DB, cache LeaderboardCache, storage utils.PhotoStorage, log *logger.Logger) *RaidService {
	return &RaidService{DB: db, Cache: cache, Storage: storage, Log: log}
}

type StartRaidInput struct {
	BossID string
	Mode   string
	TeamID *string
}

type CompleteRaidInput struct {
	Score            int64
	TimeTakenMinutes int
	Notes            string
}

// RaidSummary is a raid row with the names a list view needs.
type RaidSummary struct {
	models.Raid
	BossName   string  `json:"boss_name"`
	Difficulty string  `json:"difficulty"`
	TeamName   *string `json:"team_name"`
}

type ParticipantView struct {
	models.RaidParticipant
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type RaidDetail struct {
	Raid         models.Raid       `json:"raid"`
	Boss         models.Boss       `json:"boss"`
	TeamName     *string           `json:"team_name"`
	Participants []ParticipantView `json:"participants"`
}

func normalizeStart(in StartRaidInput) (StartRaidInput, error) {
	if in.Mode == "" {
		in.Mode = models.RaidModeSolo
	}
	if in.TeamID != nil && *in.TeamID == "" {
		in.TeamID = nil
	}
	if in.BossID == "" {
		return in, utils.NewValidationError("bossId is required")
	}

	switch in.Mode {
	case models.RaidModeTeam:
		if in.TeamID == nil {
			return in, utils.NewValidationError("teamId is required for team raids")
		}
	case models.RaidModeSolo:
		if in.TeamID != nil {
			return in, utils.NewValidationError("teamId must be empty for solo raids")
		}
	default:
		return in, utils.NewValidationError("mode must be one of: solo, team")
	}
	return in, nil
}

// Start opens a raid against a boss. No score moves until Complete.
func (s *RaidService) Start(ctx context.Context, userID string, in StartRaidInput) (*models.Raid, *models.Boss, error) {
	in, err := normalizeStart(in)
	if err != nil {
		return nil, nil, err
	}

	var raid models.Raid
	var boss models.Boss
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Mode == models.RaidModeTeam {
			ok, err := isTeamMember(tx, *in.TeamID, userID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotTeamMember
			}
		}

		if err := tx.First(&boss, "id = ?", in.BossID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBossNotFound
			}
			return err
		}

		raid = models.Raid{
			ID:        uuid.NewString(),
			UserID:    userID,
			TeamID:    in.TeamID,
			BossID:    boss.ID,
			Mode:      in.Mode,
			Status:    models.RaidStatusActive,
			StartedAt: time.Now().UTC(),
		}
		if err := tx.Create(&raid).Error; err != nil {
			return fmt.Errorf("insert raid: %w", err)
		}

		participant := models.RaidParticipant{
			ID:              uuid.NewString(),
			RaidID:          raid.ID,
			UserID:          userID,
			IndividualScore: 0,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.Log.Info("[RAID] started", "raid_id", raid.ID, "user_id", userID, "boss_id", boss.ID, "mode", raid.Mode)
	return &raid, &boss, nil
}

// Complete finishes an active raid and credits the score to the raid owner
// and, for team raids, to the team. All writes commit together or not at all.
func (s *RaidService) Complete(ctx context.Context, userID, raidID string, in CompleteRaidInput) (*models.Raid, error) {
	if in.Score < 0 {
		return nil, utils.NewValidationError("score must be greater than or equal to 0")
	}
	if in.TimeTakenMinutes < 0 {
		return nil, utils.NewValidationError("timeTakenMinutes must be greater than or equal to 0")
	}

	var raid models.Raid
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, raidID, userID); err != nil {
			return err
		}

		now := time.Now().UTC()
		result := tx.Model(&models.Raid{}).
			Where("id = ? AND status = ?", raidID, models.RaidStatusActive).
			Updates(map[string]interface{}{
				"status":             models.RaidStatusCompleted,
				"completed_at":       now,
				"total_score":        in.Score,
				"time_taken_minutes": in.TimeTakenMinutes,
				"notes":              in.Notes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRaidNotCompletable
		}

		if err := tx.First(&raid, "id = ?", raidID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", raid.UserID).
			Updates(map[string]interface{}{
				"total_raids_completed": gorm.Expr("total_raids_completed + ?", 1),
				"total_score":           gorm.Expr("total_score + ?", in.Score),
			}).Error; err != nil {
			return fmt.Errorf("update user totals: %w", err)
		}

		if raid.TeamID != nil {
			// Unscoped: a team deleted mid-raid still gets its counter.
			if err := tx.Unscoped().Model(&models.Team{}).
				Where("id = ?", *raid.TeamID).
				Update("team_score", gorm.Expr("team_score + ?", in.Score)).Error; err != nil {
				return fmt.Errorf("update team score: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("[RAID] completed", "raid_id", raid.ID, "user_id", userID, "score", in.Score)
	s.invalidateLeaderboards(ctx)
	return &raid, nil
}

// Abandon gives up on an active raid. Counters are never touched.
func (s *RaidService) Abandon(ctx context.Context, userID, raidID string) (*models.Raid, error) {
	var raid models.Raid
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, raidID, userID); err != nil {
			return err
		}

		result := tx.Model(&models.Raid{}).
			Where("id = ? AND status = ?", raidID, models.RaidStatusActive).
			Update("status", models.RaidStatusAbandoned)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRaidNotAbandonable
		}

		return tx.First(&raid, "id = ?", raidID).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("[RAID] abandoned", "raid_id", raid.ID, "user_id", userID)
	return &raid, nil
}

// AttachPhotoProof records a proof photo for the raid and makes it the
// raid's current photo. It works in any raid status.
func (s *RaidService) AttachPhotoProof(ctx context.Context, userID, raidID, photoURL, storagePath string) (*models.PhotoProof, error) {
	if photoURL == "" {
		return nil, utils.NewValidationError("photoUrl is required")
	}

	var proof models.PhotoProof
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, raidID, userID); err != nil {
			return err
		}

		proof = models.PhotoProof{
			ID:          uuid.NewString(),
			RaidID:      raidID,
			UserID:      userID,
			PhotoURL:    photoURL,
			StoragePath: storagePath,
		}
		if err := tx.Create(&proof).Error; err != nil {
			return fmt.Errorf("insert photo proof: %w", err)
		}

		return tx.Model(&models.Raid{}).
			Where("id = ?", raidID).
			Update("photo_proof_url", photoURL).Error
	})
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

// UploadPhotoProof stores the file and then attaches it. Participation is
// checked before anything is stored.
func (s *RaidService) UploadPhotoProof(ctx context.Context, userID, raidID string, fileHeader *multipart.FileHeader) (*models.PhotoProof, error) {
	if fileHeader == nil {
		return nil, utils.NewValidationError("photo file is required")
	}
	ext := utils.PhotoExt(fileHeader.Filename)
	if ext == "" {
		return nil, utils.NewValidationError("photo must be a jpg, jpeg, png, webp or heic image")
	}

	if err := requireParticipant(s.DB.WithContext(ctx), raidID, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("raid-proofs/%s-%d%s", raidID, time.Now().Unix(), ext)
	url, err := s.Storage.Upload(ctx, fileHeader, key)
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	return s.AttachPhotoProof(ctx, userID, raidID, url, key)
}

// Join adds a team member to an active team raid.
func (s *RaidService) Join(ctx context.Context, userID, raidID string) (*models.RaidParticipant, error) {
	var participant models.RaidParticipant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raid models.Raid
		if err := tx.First(&raid, "id = ?", raidID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaidNotFound
			}
			return err
		}
		if raid.Mode != models.RaidModeTeam || raid.TeamID == nil {
			return ErrRaidNotJoinable
		}
		if raid.Status != models.RaidStatusActive {
			return ErrRaidNotActive
		}

		ok, err := isTeamMember(tx, *raid.TeamID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotTeamMember
		}

		var n int64
		if err := tx.Model(&models.RaidParticipant{}).
			Where("raid_id = ? AND user_id = ?", raidID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyParticipant
		}

		participant = models.RaidParticipant{
			ID:     uuid.NewString(),
			RaidID: raidID,
			UserID: userID,
		}
		if err := tx.Create(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyParticipant
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *RaidService) GetDetails(ctx context.Context, raidID string) (*RaidDetail, error) {
	db := s.DB.WithContext(ctx)

	var detail RaidDetail
	if err := db.First(&detail.Raid, "id = ?", raidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRaidNotFound
		}
		return nil, err
	}
	if err := db.First(&detail.Boss, "id = ?", detail.Raid.BossID).Error; err != nil {
		return nil, err
	}

	if detail.Raid.TeamID != nil {
		var team models.Team
		err := db.Unscoped().Select("id", "name").First(&team, "id = ?", *detail.Raid.TeamID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			detail.TeamName = &team.Name
		}
	}

	detail.Participants = []ParticipantView{}
	if err := db.Table("raid_participants AS rp").
		Select("rp.*, u.username, u.display_name, u.avatar_url").
		Joins("JOIN users u ON u.id = rp.user_id").
		Where("rp.raid_id = ?", raidID).
		Order("rp.joined_at ASC").
		Scan(&detail.Participants).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

func raidSummaryQuery(db *gorm.DB) *gorm.DB {
	return db.Table("raids AS r").
		Select("r.*, rb.name AS boss_name, rb.difficulty, t.name AS team_name").
		Joins("JOIN recipe_bosses rb ON rb.id = r.boss_id").
		Joins("LEFT JOIN teams t ON t.id = r.team_id")
}

func isValidRaidStatus(status string) bool {
	switch status {
	case models.RaidStatusActive, models.RaidStatusCompleted, models.RaidStatusAbandoned:
		return true
	}
	return false
}

// GetTeamRaids lists a team's raids, newest first. status is optional.
func (s *RaidService) GetTeamRaids(ctx context.Context, teamID, status string) ([]RaidSummary, error) {
	q := raidSummaryQuery(s.DB.WithContext(ctx)).Where("r.team_id = ?", teamID)
	if status != "" {
		if !isValidRaidStatus(status) {
			return nil, utils.NewValidationError("status must be one of: active, completed, abandoned")
		}
		q = q.Where("r.status = ?", status)
	}

	raids := []RaidSummary{}
	if err := q.Order("r.created_at DESC").Scan(&raids).Error; err != nil {
		return nil, err
	}
	return raids, nil
}

// GetUserRaids lists every raid the user takes part in, newest first.
func (s *RaidService) GetUserRaids(ctx context.Context, userID string, limit int) ([]RaidSummary, error) {
	q := raidSummaryQuery(s.DB.WithContext(ctx)).
		Joins("JOIN raid_participants rp ON rp.raid_id = r.id").
		Where("rp.user_id = ?", userID).
		Order("r.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	raids := []RaidSummary{}
	if err := q.Scan(&raids).Error; err != nil {
		return nil, err
	}
	return raids, nil
}

func (s *RaidService) invalidateLeaderboards(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateLeaderboards(ctx); err != nil {
		s.Log.Warn("[RAID] leaderboard cache invalidation failed", "error", err)
	}
}

func requireParticipant(db *gorm.DB, raidID, userID string) error {
	var n int64
	if err := db.Model(&models.RaidParticipant{}).
		Where("raid_id = ? AND user_id = ?", raidID, userID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotParticipant
	}
	return nil
}

func isTeamMember(db *gorm.DB, teamID, userID string) (bool, error) {
	var n int64
	if err := db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
