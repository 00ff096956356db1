package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brunovittoria/cofrin.io-sub000/internal/config"
	"github.com/brunovittoria/cofrin.io-sub000/internal/database"
	"github.com/brunovittoria/cofrin.io-sub000/internal/router"
)

type testApp struct {
	router *gin.Engine
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = 4 // keep the test fast

	app := &testApp{router: router.SetupRouter(cfg, db)}

	app.postJSON(t, "/api/auth/register", map[string]any{
		"username":         "tester",
		"password":         "Sup3rSecret",
		"confirm_password": "Sup3rSecret",
	}, http.StatusOK)

	resp := app.postJSON(t, "/api/auth/login", map[string]any{
		"username": "tester",
		"password": "Sup3rSecret",
	}, http.StatusOK)
	app.token = resp["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, app.token)

	return app
}

func (a *testApp) request(t *testing.T, method, path string, body any, wantStatus int) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return out
}

func (a *testApp) postJSON(t *testing.T, path string, body any, wantStatus int) map[string]any {
	return a.request(t, http.MethodPost, path, body, wantStatus)
}

func (a *testApp) getJSON(t *testing.T, path string, wantStatus int) map[string]any {
	return a.request(t, http.MethodGet, path, nil, wantStatus)
}

func data(resp map[string]any) map[string]any {
	d, _ := resp["data"].(map[string]any)
	return d
}

func (a *testApp) createCategory(t *testing.T, name, kind string) float64 {
	resp := a.postJSON(t, "/api/categories", map[string]any{
		"name": name,
		"kind": kind,
	}, http.StatusOK)
	return data(resp)["category"].(map[string]any)["id"].(float64)
}

func TestLaunchLifecycleFlow(t *testing.T) {
	app := newTestApp(t)
	catID := app.createCategory(t, "Insurance", "expense")

	// create a pending expense prediction
	resp := app.postJSON(t, "/api/launches", map[string]any{
		"scheduled_date": "2024-03-05",
		"kind":           "expense",
		"description":    "car insurance",
		"amount":         "150.00",
		"category_id":    catID,
	}, http.StatusOK)
	launch := data(resp)["launch"].(map[string]any)
	assert.Equal(t, "pending", launch["status"])
	launchID := launch["id"].(float64)

	// complete it
	resp = app.postJSON(t, fmt.Sprintf("/api/launches/%.0f/complete", launchID), nil, http.StatusOK)
	assert.Equal(t, "completed", data(resp)["launch"].(map[string]any)["status"])

	// the expense ledger holds exactly one derived entry
	resp = app.getJSON(t, "/api/entries?kind=expense", http.StatusOK)
	items := data(resp)["items"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, "2024-03-05", entry["date"])
	assert.Equal(t, "150", entry["amount"])
	assert.Equal(t, launchID, entry["source_launch_id"])

	// completing again conflicts and does not duplicate
	app.postJSON(t, fmt.Sprintf("/api/launches/%.0f/complete", launchID), nil, http.StatusConflict)
	resp = app.getJSON(t, "/api/entries?kind=expense", http.StatusOK)
	require.Len(t, data(resp)["items"].([]any), 1)

	// status-filtered listings
	resp = app.getJSON(t, "/api/launches?status=completed", http.StatusOK)
	require.Len(t, data(resp)["items"].([]any), 1)
	resp = app.getJSON(t, "/api/launches?status=pending", http.StatusOK)
	require.Len(t, data(resp)["items"].([]any), 0)

	// completed launches are frozen
	app.request(t, http.MethodPut, fmt.Sprintf("/api/launches/%.0f", launchID), map[string]any{
		"scheduled_date": "2024-03-06",
		"kind":           "expense",
		"amount":         "10.00",
		"category_id":    catID,
	}, http.StatusConflict)
}

func TestGoalProgressFlow(t *testing.T) {
	app := newTestApp(t)

	resp := app.postJSON(t, "/api/goals", map[string]any{
		"title":         "trip fund",
		"type":          "save",
		"target_amount": "500.00",
		"deadline":      "2030-06-30",
	}, http.StatusOK)
	goal := data(resp)["goal"].(map[string]any)
	goalID := goal["id"].(float64)
	assert.Equal(t, "active", goal["status"])

	// partial contribution
	resp = app.postJSON(t, fmt.Sprintf("/api/goals/%.0f/progress", goalID), map[string]any{
		"amount": "200.00",
		"note":   "bonus",
		"mood":   "happy",
	}, http.StatusOK)
	assert.Equal(t, false, data(resp)["completed"])
	assert.Equal(t, "200", data(resp)["goal"].(map[string]any)["current_amount"])

	// suggestion is advisory and never persisted
	resp = app.getJSON(t, fmt.Sprintf("/api/goals/%.0f/suggestion", goalID), http.StatusOK)
	assert.NotEmpty(t, data(resp)["monthly_suggestion"])
	assert.NotEmpty(t, data(resp)["health"])

	// crossing the target completes the goal
	resp = app.postJSON(t, fmt.Sprintf("/api/goals/%.0f/progress", goalID), map[string]any{
		"amount": "300.00",
	}, http.StatusOK)
	assert.Equal(t, true, data(resp)["completed"])
	assert.Equal(t, "completed", data(resp)["goal"].(map[string]any)["status"])

	// terminal afterwards
	app.postJSON(t, fmt.Sprintf("/api/goals/%.0f/progress", goalID), map[string]any{
		"amount": "1.00",
	}, http.StatusConflict)
	app.postJSON(t, fmt.Sprintf("/api/goals/%.0f/status", goalID), map[string]any{
		"status": "paused",
	}, http.StatusConflict)

	// the contribution history is intact
	resp = app.getJSON(t, fmt.Sprintf("/api/goals/%.0f/checkins", goalID), http.StatusOK)
	checkIns := data(resp)["items"].([]any)
	require.Len(t, checkIns, 2)
	assert.Equal(t, "bonus", checkIns[0].(map[string]any)["note"])
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)
	app.token = ""
	app.getJSON(t, "/api/launches", http.StatusUnauthorized)
	app.getJSON(t, "/api/goals", http.StatusUnauthorized)
}
