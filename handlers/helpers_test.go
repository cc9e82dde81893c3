package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-raid/logger"
	"recipe-raid/models"
	"recipe-raid/services"
	"recipe-raid/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testServiceToken = "svc-test-token"

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	svc Services
}

func newTestServer(t *testing.T) *testServer {
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

	log := logger.Nop()
	storage, err := utils.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	tokens := utils.NewTokenIssuer("handler-test-secret", time.Hour)

	svc := Services{
		Auth:        services.NewAuthService(db, tokens, log),
		Raids:       services.NewRaidService(db, nil, storage, log),
		Bosses:      services.NewBossService(db),
		Teams:       services.NewTeamService(db, log),
		Leaderboard: services.NewLeaderboardService(db, nil, log),
		Ingredients: services.NewIngredientService(db),
		Users:       services.NewUserService(db),
		Tokens:      tokens,
	}
	app := NewApp(AppConfig{AllowedOrigins: "*", ServiceToken: testServiceToken}, svc, log)
	return &testServer{app: app, db: db, svc: svc}
}

// call sends a JSON request and decodes the JSON response.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.do(t, req)
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// register creates a player over HTTP and returns its id and token.
func (s *testServer) register(t *testing.T, username string) (string, string) {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status, body)
	user := body["user"].(map[string]interface{})
	return user["id"].(string), body["token"].(string)
}

func (s *testServer) createBoss(t *testing.T, name string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/bosses", jsonBody(t, map[string]interface{}{
		"name":       name,
		"difficulty": "medium",
		"baseScore":  150,
	}))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Service-Token", testServiceToken)
	status, body := s.do(t, req)
	require.Equal(t, http.StatusCreated, status, body)
	return body["boss"].(map[string]interface{})["id"].(string)
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func object(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	v, ok := body[key].(map[string]interface{})
	require.True(t, ok, "missing %q in %v", key, body)
	return v
}
