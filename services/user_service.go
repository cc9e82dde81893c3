package services

import (
	"context"
	"errors"
	"strings"

	"recipe-raid/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const recentRaidLimit = 10

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type UserStats struct {
	User        models.User   `json:"user"`
	Rank        int64         `json:"rank"`
	Teams       []UserTeam    `json:"teams"`
	RecentRaids []RaidSummary `json:"recentRaids"`
}

// Stats gathers the dashboard view for one user. The four reads run
// concurrently and are not a consistent snapshot.
func (s *UserService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	var stats UserStats
	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	g.Go(func() error {
		err := db.First(&stats.User, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	g.Go(func() error {
		rank, err := userRank(db, userID)
		if errors.Is(err, ErrUserNotFound) {
			return nil // reported by the user lookup
		}
		stats.Rank = rank
		return err
	})
	g.Go(func() error {
		teams, err := userTeams(db, userID)
		stats.Teams = teams
		return err
	})
	g.Go(func() error {
		raids := []RaidSummary{}
		err := raidSummaryQuery(db).
			Joins("JOIN raid_participants rp ON rp.raid_id = r.id").
			Where("rp.user_id = ?", userID).
			Order("r.created_at DESC").
			Limit(recentRaidLimit).
			Scan(&raids).Error
		stats.RecentRaids = raids
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Search finds players by username or display name, for team invites.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.PublicUser, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.WithContext(ctx).Model(&models.User{}).Limit(limit).Order("username ASC")
	if query = strings.TrimSpace(query); query != "" {
		term := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", term, term)
	}

	users := []models.PublicUser{}
	if err := db.Select("id", "username", "display_name", "avatar_url").Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
