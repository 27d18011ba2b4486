package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-health/lumora-backend/internal/alerts"
	"github.com/lumora-health/lumora-backend/internal/cache"
	"github.com/lumora-health/lumora-backend/internal/chatbot"
	"github.com/lumora-health/lumora-backend/internal/config"
	"github.com/lumora-health/lumora-backend/internal/database"
	"github.com/lumora-health/lumora-backend/internal/ml"
	"github.com/lumora-health/lumora-backend/internal/monitoring"
	"github.com/lumora-health/lumora-backend/internal/ratelimit"
	"github.com/lumora-health/lumora-backend/internal/security"
)

type testServer struct {
	router  *gin.Engine
	repo    *database.Repository
	limiter *ratelimit.RateLimiter
}

// writeTestArtifacts builds a model that scores Mood=Sad as high risk and
// Mood=Happy as low risk, with every other coefficient at zero.
func writeTestArtifacts(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	coeffs := make([]float64, len(ml.FeatureOrder))
	coeffs[0] = 6.0
	model := map[string]any{
		"intercept":     -3.0,
		"coefficients":  coeffs,
		"classes":       []int{0, 1},
		"feature_order": ml.FeatureOrder,
	}
	modelPath := filepath.Join(dir, "model.json")
	data, err := json.Marshal(model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(modelPath, data, 0o644))

	classes := make(map[string][]string)
	for _, feature := range ml.FeatureOrder {
		if feature == "Energy" {
			continue
		}
		classes[feature] = []string{"Happy", "Sad"}
	}
	encodersPath := filepath.Join(dir, "encoders.json")
	data, err = json.Marshal(classes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(encodersPath, data, 0o644))

	return modelPath, encodersPath
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	modelPath, encodersPath := writeTestArtifacts(t)
	return newTestServerWithArtifacts(t, modelPath, encodersPath, true)
}

// newTestServerWithArtifacts wires the full stack against the given artifact
// paths. loadModels=false skips the eager load so tests can exercise the
// degraded path where artifacts are missing at scoring time.
func newTestServerWithArtifacts(t *testing.T, modelPath, encodersPath string, loadModels bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		AppName:           "Lumora Mental Health API",
		AppVersion:        "test",
		JWTSecret:         "test-secret",
		TokenExpiry:       time.Hour,
		CORSOrigins:       []string{"http://localhost:3000"},
		RequestTimeout:    10 * time.Second,
		ModelPath:         modelPath,
		EncodersPath:      encodersPath,
		HighRiskThreshold: 0.7,
	}

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db)
	users := database.NewUserService(repo, cfg.JWTSecret, cfg.TokenExpiry)

	models := ml.NewModelService(cfg.ModelPath, cfg.EncodersPath)
	if loadModels {
		require.NoError(t, models.Load())
	}
	scorer := ml.NewScorer(models)

	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()

	policy := alerts.NewPolicy(cfg.HighRiskThreshold)
	alertService := alerts.NewService(repo, policy, nil, false, logger, metrics)

	redisClient, err := ratelimit.NewRedisClient("", "", 0)
	require.NoError(t, err)
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), metrics)

	responseCache := cache.NewCache(time.Minute)
	secMiddleware := security.NewSecurityMiddleware(security.DefaultSecurityConfig())

	h := NewHandlers(cfg, db, repo, users, models, scorer, alertService, chatbot.NewBot(), responseCache, limiter, logger, metrics)
	router := NewRouter(h, limiter, secMiddleware)

	return &testServer{router: router, repo: repo, limiter: limiter}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":     email,
		"full_name": "Test User",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decode(t, w)["access_token"].(string)
	require.True(t, ok)
	return token
}

func (s *testServer) createTest(t *testing.T, token, mood string) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/depression-tests", token, gin.H{"mood": mood})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, ok := decode(t, w)["depression_test_id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func (s *testServer) predict(t *testing.T, token string, testID int64) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/risk/predict/"+strconv.FormatInt(testID, 10), token, gin.H{})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["model_loaded"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	token := s.registerUser(t, "auth@example.com")
	assert.NotEmpty(t, token)

	// duplicate email
	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "auth@example.com", "full_name": "Dup", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// weak password rejected by validation
	w = s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "weak@example.com", "full_name": "Weak", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "auth@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bearer", decode(t, w)["token_type"])

	w = s.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "auth@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPredictFlowHighRisk(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "high@example.com")

	testID := s.createTest(t, token, "Sad")

	w := s.predict(t, token, testID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "High", body["risk_level"])
	assert.Greater(t, body["risk_score"].(float64), 0.7)
	assert.Equal(t, true, body["persisted"])
	assert.Equal(t, true, body["alert_triggered"])
	assert.Contains(t, body["recommendation"], "988")

	// Alert and notification were raised
	w = s.do(t, http.MethodGet, "/api/alerts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decodeList(t, w))

	w = s.do(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeList(t, w))

	// Latest reflects the stored result
	w = s.do(t, http.MethodGet, "/api/risk/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "High", decode(t, w)["risk_level"])

	// The dispatched alert is counted
	w = s.do(t, http.MethodGet, "/api/metrics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["alert_count"])
}

func TestPredictFlowLowRisk(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "low@example.com")

	testID := s.createTest(t, token, "Happy")

	w := s.predict(t, token, testID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Low", body["risk_level"])
	assert.Equal(t, false, body["alert_triggered"])

	w = s.do(t, http.MethodGet, "/api/alerts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestPredictMissingArtifactsDegradesToNeutral(t *testing.T) {
	dir := t.TempDir()
	s := newTestServerWithArtifacts(t,
		filepath.Join(dir, "missing-model.json"),
		filepath.Join(dir, "missing-encoders.json"),
		false)
	token := s.registerUser(t, "neutral@example.com")

	testID := s.createTest(t, token, "Sad")

	w := s.predict(t, token, testID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Unknown", body["risk_level"])
	assert.Equal(t, 0.5, body["risk_score"])
	assert.Equal(t, float64(0), body["confidence"])
	assert.Equal(t, false, body["persisted"])
	assert.Equal(t, false, body["alert_triggered"])
	assert.Nil(t, body["result_id"])
	assert.Contains(t, body["recommendation"], "Unable to assess")

	// The neutral assessment never reaches the database
	w = s.do(t, http.MethodGet, "/api/risk/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDepressionTestIncludesRiskResult(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "detail@example.com")

	testID := s.createTest(t, token, "Sad")
	path := "/api/depression-tests/" + strconv.FormatInt(testID, 10)

	w := s.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode(t, w)["risk_result"])

	w = s.predict(t, token, testID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	result, ok := body["risk_result"].(map[string]any)
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "High", result["risk_level"])
	assert.Equal(t, float64(testID), body["depression_test_id"])
}

func TestPredictOwnershipAndMissingTest(t *testing.T) {
	s := newTestServer(t)
	owner := s.registerUser(t, "owner@example.com")
	intruder := s.registerUser(t, "intruder@example.com")

	testID := s.createTest(t, owner, "Sad")

	w := s.predict(t, intruder, testID)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.predict(t, owner, 99999)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/risk/predict/not-a-number", owner, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRiskHistoryAndTrend(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "trend@example.com")

	first := s.createTest(t, token, "Happy")
	second := s.createTest(t, token, "Sad")

	require.Equal(t, http.StatusCreated, s.predict(t, token, first).Code)
	require.Equal(t, http.StatusCreated, s.predict(t, token, second).Code)

	w := s.do(t, http.MethodGet, "/api/risk/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = s.do(t, http.MethodGet, "/api/risk/trend?days=30", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trend := decode(t, w)
	assert.Equal(t, "worsening", trend["trend"])
	assert.NotNil(t, trend["current_risk"])
	assert.NotNil(t, trend["change_percentage"])

	w = s.do(t, http.MethodGet, "/api/risk/weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	weeks, ok := decode(t, w)["weeks"].([]any)
	require.True(t, ok)
	assert.Len(t, weeks, 1)
}

func TestRiskTrendNoData(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "empty@example.com")

	w := s.do(t, http.MethodGet, "/api/risk/trend", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no_data", decode(t, w)["trend"])

	w = s.do(t, http.MethodGet, "/api/risk/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoodEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "mood@example.com")

	w := s.do(t, http.MethodPost, "/api/moods", token, gin.H{"mood_type": "good", "note": "solid day"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/moods", token, gin.H{"mood_type": "poor"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/moods", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = s.do(t, http.MethodGet, "/api/moods/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.Equal(t, float64(2), stats["total_entries"])
	// good=4, poor=2
	assert.Equal(t, 3.0, stats["average_mood"])

	w = s.do(t, http.MethodGet, "/api/charts/mood", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	chart := decode(t, w)
	assert.Len(t, chart["mood_levels"], 2)
}

func TestEmergencyContactEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "contact@example.com")

	w := s.do(t, http.MethodGet, "/api/emergency-contact", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/emergency-contact", token, gin.H{
		"contact_name":         "Alex",
		"contact_email":        "alex@example.com",
		"contact_relationship": "sibling",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/emergency-contact", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alex", decode(t, w)["contact_name"])

	w = s.do(t, http.MethodDelete, "/api/emergency-contact", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/emergency-contact", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatbotEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "chat@example.com")

	w := s.do(t, http.MethodPost, "/api/chatbot/message", token, gin.H{"message": "I feel sad today"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Contains(t, body["message"], "difficult time")
	assert.NotEmpty(t, body["suggestions"])
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "gone@example.com")

	user, err := s.repo.GetUserByEmail("gone@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)

	// Exhaust the user's chat quota so the reset is observable
	ctx := context.Background()
	for i := 0; ; i++ {
		require.Less(t, i, 1000)
		res, err := s.limiter.AllowChat(ctx, user.ID)
		require.NoError(t, err)
		if !res.Allowed {
			break
		}
	}

	w := s.do(t, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deleted"])

	// Token still validates but the account is gone
	w = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting the account resets its rate limit state
	res, err := s.limiter.AllowChat(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
