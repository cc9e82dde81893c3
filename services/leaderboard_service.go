package services

import (
	"context"
	"errors"
	"time"

	"recipe-raid/logger"
	"recipe-raid/models"

	"gorm.io/gorm"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"

	LeaderboardIndividual = "individual"
	LeaderboardTeam       = "team"

	DefaultLeaderboardLimit = 100
	leaderboardTTL          = 15 * time.Second
)

var (
	LeaderboardPeriods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}
	LeaderboardTypes   = []string{LeaderboardIndividual, LeaderboardTeam}
)

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Score          int64  `json:"score"`
	RaidsCompleted int64  `json:"raids_completed"`
}

type Leaderboard struct {
	Entries []LeaderboardEntry `json:"leaderboard"`
	Period  string             `json:"period"`
	Type    string             `json:"type"`
}

// LeaderboardService reads the score aggregates. It never writes them.
type LeaderboardService struct {
	DB    *gorm.DB
	Cache LeaderboardCache
	Log   *logger.Logger
	Now   func() time.Time
}

func NewLeaderboardService(db *gorm.DB, cache LeaderboardCache, log *logger.Logger) *LeaderboardService {
	return &LeaderboardService{DB: db, Cache: cache, Log: log, Now: time.Now}
}

// PeriodStart returns the UTC instant a period window opens at. all_time has
// no window and returns the zero time.
func PeriodStart(period string, now time.Time) (time.Time, bool) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodDaily:
		return day, true
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset), true
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case PeriodAllTime:
		return time.Time{}, true
	}
	return time.Time{}, false
}

func (s *LeaderboardService) Get(ctx context.Context, period, kind string, limit int) (*Leaderboard, error) {
	if kind != LeaderboardIndividual && kind != LeaderboardTeam {
		return nil, ErrInvalidLeaderboardType
	}
	if _, ok := PeriodStart(period, s.Now()); !ok {
		return nil, ErrInvalidLeaderboardPeriod
	}
	if limit <= 0 || limit > DefaultLeaderboardLimit {
		limit = DefaultLeaderboardLimit
	}

	key := leaderboardKey(period, kind, limit)
	if s.Cache != nil {
		var cached Leaderboard
		hit, err := s.Cache.Get(ctx, key, &cached)
		if err != nil {
			s.Log.Warn("[LEADERBOARD] cache read failed", "key", key, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	board, err := s.compute(ctx, period, kind, limit)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, board, leaderboardTTL); err != nil {
			s.Log.Warn("[LEADERBOARD] cache write failed", "key", key, "error", err)
		}
	}
	return board, nil
}

// Warm recomputes every period/type at the default limit into the cache.
func (s *LeaderboardService) Warm(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	for _, period := range LeaderboardPeriods {
		for _, kind := range LeaderboardTypes {
			board, err := s.compute(ctx, period, kind, DefaultLeaderboardLimit)
			if err != nil {
				return err
			}
			if err := s.Cache.Set(ctx, leaderboardKey(period, kind, DefaultLeaderboardLimit), board, leaderboardTTL); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *LeaderboardService) compute(ctx context.Context, period, kind string, limit int) (*Leaderboard, error) {
	start, _ := PeriodStart(period, s.Now())
	db := s.DB.WithContext(ctx)

	var q *gorm.DB
	switch {
	case kind == LeaderboardIndividual && period == PeriodAllTime:
		q = db.Table("users AS u").
			Select("u.id, u.username AS name, u.display_name, u.avatar_url, u.total_score AS score, u.total_raids_completed AS raids_completed")
	case kind == LeaderboardIndividual:
		q = db.Table("raids AS r").
			Select("u.id, u.username AS name, u.display_name, u.avatar_url, SUM(r.total_score) AS score, COUNT(r.id) AS raids_completed").
			Joins("JOIN users u ON u.id = r.user_id").
			Where("r.status = ? AND r.completed_at >= ?", models.RaidStatusCompleted, start).
			Group("u.id, u.username, u.display_name, u.avatar_url")
	case period == PeriodAllTime:
		q = db.Table("teams AS t").
			Select("t.id, t.name, t.team_score AS score, COUNT(r.id) AS raids_completed").
			Joins("LEFT JOIN raids r ON r.team_id = t.id AND r.status = ?", models.RaidStatusCompleted).
			Where("t.deleted_at IS NULL").
			Group("t.id, t.name, t.team_score")
	default:
		q = db.Table("raids AS r").
			Select("t.id, t.name, SUM(r.total_score) AS score, COUNT(r.id) AS raids_completed").
			Joins("JOIN teams t ON t.id = r.team_id").
			Where("r.status = ? AND r.completed_at >= ? AND t.deleted_at IS NULL", models.RaidStatusCompleted, start).
			Group("t.id, t.name")
	}

	entries := []LeaderboardEntry{}
	if err := q.Order("score DESC").Order("name ASC").Limit(limit).Scan(&entries).Error; err != nil {
		return nil, err
	}
	assignRanks(entries)

	return &Leaderboard{Entries: entries, Period: period, Type: kind}, nil
}

// assignRanks uses competition ranking: equal scores share a rank and the
// next distinct score skips ahead (1, 2, 2, 4).
func assignRanks(entries []LeaderboardEntry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// UserRank is 1 + the number of users with a strictly higher total score.
func (s *LeaderboardService) UserRank(ctx context.Context, userID string) (int64, error) {
	return userRank(s.DB.WithContext(ctx), userID)
}

func userRank(db *gorm.DB, userID string) (int64, error) {
	var user models.User
	if err := db.Select("id", "total_score").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	var ahead int64
	if err := db.Model(&models.User{}).
		Where("total_score > ?", user.TotalScore).
		Count(&ahead).Error; err != nil {
		return 0, err
	}
	return ahead + 1, nil
}
