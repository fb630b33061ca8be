package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-kintai/internal/auth"
	"go-kintai/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error map[string]any  `json:"error"`
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)

	cfg := &config.Config{
		Store:    config.StoreConfig{Backend: config.BackendMemory, Workbook: "test"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", AdminName: "admin", AdminPasswordHash: hash},
		Rules:    config.RulesConfig{FiscalYearPolicy: "calendar", LunchBreakPolicy: "subtract"},
		Retry:    config.RetryConfig{MaxAttempts: 1},
		Timezone: "Asia/Tokyo",
	}

	r := gin.New()
	a, err := BuildApp(context.Background(), r, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func login(t *testing.T, r *gin.Engine, name, password string) string {
	t.Helper()
	code, env := call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": name, "password": password})
	require.Equal(t, http.StatusOK, code, env.Error)
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp.AccessToken
}

func TestBuildApp_RequiresSecret(t *testing.T) {
	_, err := BuildApp(context.Background(), gin.New(), &config.Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestBuildApp_LeaveShowsOnCalendar(t *testing.T) {
	r := newTestApp(t)

	code, _ := call(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	adminToken := login(t, r, "admin", "admin-pass")
	code, env := call(t, r, http.MethodPost, "/api/v1/staff", adminToken, map[string]string{"name": "Tanaka", "password": "pass1234"})
	require.Equal(t, http.StatusCreated, code, env.Error)

	staffToken := login(t, r, "Tanaka", "pass1234")
	code, env = call(t, r, http.MethodPost, "/api/v1/attendance", staffToken, map[string]string{
		"leave_type": "年休",
		"start_date": "2024-04-01",
		"end_date":   "2024-04-03",
		"start_time": "08:30",
		"end_time":   "17:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = call(t, r, http.MethodGet, "/api/v1/calendar", staffToken, nil)
	require.Equal(t, http.StatusOK, code, env.Error)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	var leave map[string]any
	for _, it := range items {
		if it["start"] == "2024-04-01" {
			leave = it
		}
	}
	require.NotNil(t, leave)
	assert.Equal(t, "2024-04-04", leave["end"])
	assert.Equal(t, "Tanaka - 年休 (04/01〜04/03)", leave["title"])

	// staff cannot purge
	code, _ = call(t, r, http.MethodDelete, "/api/v1/attendance", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestBuildApp_Unauthenticated(t *testing.T) {
	r := newTestApp(t)
	code, env := call(t, r, http.MethodGet, "/api/v1/calendar", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Ok)
}

func TestCORSConfig(t *testing.T) {
	c := corsConfig([]string{"https://kintai.example"})
	assert.Equal(t, []string{"https://kintai.example"}, c.AllowOrigins)
	assert.True(t, c.AllowCredentials)

	c = corsConfig([]string{"https://kintai.example", "*"})
	assert.True(t, c.AllowAllOrigins)
	assert.False(t, c.AllowCredentials)
	assert.Empty(t, c.AllowOrigins)
}
