package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"recipe-raid/logger"
	"recipe-raid/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database. A single connection
// serializes transactions the way row locks would on Postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		DisplayName:  username,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createBoss(t *testing.T, db *gorm.DB, name, difficulty string, level int) models.Boss {
	t.Helper()
	b := models.Boss{
		ID:                  uuid.NewString(),
		Name:                name,
		Slug:                uuid.NewString(),
		Difficulty:          difficulty,
		DifficultyLevel:     level,
		BaseScore:           100,
		RequiredIngredients: datatypes.JSONSlice[string]{"flour", "eggs"},
		Instructions:        datatypes.JSONSlice[string]{"mix", "bake"},
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

// createTeam makes a team led by leader with the given extra members.
func createTeam(t *testing.T, db *gorm.DB, name string, leader models.User, members ...models.User) models.Team {
	t.Helper()
	team := models.Team{ID: uuid.NewString(), Name: name, Slug: uuid.NewString(), LeaderID: leader.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{ID: uuid.NewString(), TeamID: team.ID, UserID: leader.ID, Role: models.RoleLeader}).Error)
	for _, m := range members {
		require.NoError(t, db.Create(&models.TeamMember{ID: uuid.NewString(), TeamID: team.ID, UserID: m.ID, Role: models.RoleMember}).Error)
	}
	return team
}

func reloadUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return u
}

func reloadTeam(t *testing.T, db *gorm.DB, id string) models.Team {
	t.Helper()
	var team models.Team
	require.NoError(t, db.Unscoped().First(&team, "id = ?", id).Error)
	return team
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// memCache is an in-process LeaderboardCache.
type memCache struct {
	mu            sync.Mutex
	items         map[string][]byte
	invalidations int
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memCache) InvalidateLeaderboards(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = map[string][]byte{}
	m.invalidations++
	return nil
}

func (m *memCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

var testLog = logger.Nop()
