package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumora-health/lumora-backend/internal/alerts"
	"github.com/lumora-health/lumora-backend/internal/analysis"
	"github.com/lumora-health/lumora-backend/internal/database"
	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
	"github.com/lumora-health/lumora-backend/internal/ml"
)

// predictResponse is the scoring outcome returned to the client. Persisted is
// false only for the neutral fallback, which never reaches the database.
type predictResponse struct {
	ResultID         *int64       `json:"result_id,omitempty"`
	DepressionTestID int64        `json:"depression_test_id"`
	RiskLevel        ml.RiskLevel `json:"risk_level"`
	RiskScore        float64      `json:"risk_score"`
	Confidence       float64      `json:"confidence"`
	Recommendation   string       `json:"recommendation"`
	AlertTriggered   bool         `json:"alert_triggered"`
	Persisted        bool         `json:"persisted"`
}

// PredictForTest scores a stored questionnaire and persists the outcome.
// Inference failures degrade to a neutral, non-persisted assessment.
func (h *Handlers) PredictForTest(c *gin.Context) {
	userID := c.GetInt64("user_id")

	testID, err := strconv.ParseInt(c.Param("test_id"), 10, 64)
	if err != nil {
		appErr := apperrors.NewValidationError("Invalid test id")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	test, err := h.repo.GetDepressionTestByID(testID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load depression test", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if test == nil {
		appErr := apperrors.NewNotFoundError("Depression test")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if test.UserID != userID {
		appErr := apperrors.NewForbiddenError("You do not have permission to access this depression test")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	start := time.Now()

	assessment, err := h.scorer.ScoreRecord(test.Record())
	if err != nil {
		// Neutral fallback: returned to the caller, never persisted
		h.metrics.IncrementScoringFailure()
		h.logger.Error("risk scoring failed, returning neutral assessment",
			"user_id", userID, "test_id", testID, "error", err)

		neutral := ml.NeutralAssessment()
		c.JSON(http.StatusOK, predictResponse{
			DepressionTestID: testID,
			RiskLevel:        neutral.Level,
			RiskScore:        neutral.Score,
			Confidence:       neutral.Confidence,
			Recommendation:   alerts.Recommendation(neutral.Level),
			Persisted:        false,
		})
		return
	}

	result, err := h.repo.CreateRiskResult(userID, assessment.Level, assessment.Score, &testID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to persist risk result", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	h.metrics.IncrementScoring()
	h.logger.ScoringLogger(userID, string(assessment.Level), assessment.Score, assessment.Confidence, time.Since(start))
	h.cache.InvalidateUser(userID)

	recommendation := alerts.Recommendation(assessment.Level)

	alertTriggered := false
	if user, err := h.repo.GetUserByID(userID); err == nil && user != nil {
		alertTriggered = h.alerts.ProcessRiskAlert(c.Request.Context(), user, assessment.Level, assessment.Score, recommendation)
	}

	c.JSON(http.StatusCreated, predictResponse{
		ResultID:         &result.ResultID,
		DepressionTestID: testID,
		RiskLevel:        result.RiskLevel,
		RiskScore:        result.RiskScore,
		Confidence:       assessment.Confidence,
		Recommendation:   recommendation,
		AlertTriggered:   alertTriggered,
		Persisted:        true,
	})
}

// RiskHistory returns the user's risk results, newest first
func (h *Handlers) RiskHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 0, 1, 365)
	offset := queryInt(c, "skip", 0, 0, 1<<30)
	limit := queryInt(c, "limit", 50, 1, 500)

	results, err := h.repo.ListRiskResults(userID, days, offset, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load risk history", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, results)
}

// RiskLatest returns the most recent risk result
func (h *Handlers) RiskLatest(c *gin.Context) {
	userID := c.GetInt64("user_id")

	result, err := h.repo.LatestRiskResult(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load latest risk result", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if result == nil {
		appErr := apperrors.NewNotFoundError("Risk assessment")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RiskTrend compares the two most recent scores inside a window
func (h *Handlers) RiskTrend(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 30, 1, 365)

	results, err := h.repo.ListRiskResults(userID, days, 0, 100)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load risk results", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	trend := analysis.ComputeTrend(toSamples(results), days)
	c.JSON(http.StatusOK, trend)
}

// RiskWeekly returns Monday-aligned weekly aggregates over the full history
func (h *Handlers) RiskWeekly(c *gin.Context) {
	userID := c.GetInt64("user_id")

	results, err := h.repo.ListRiskResultsAscending(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load risk results", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	weeks := analysis.ComputeWeeklyAggregates(toSamples(results))
	c.JSON(http.StatusOK, gin.H{"weeks": weeks})
}

// RiskChart returns chart-ready score series, oldest first
func (h *Handlers) RiskChart(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 30, 1, 365)

	results, err := h.repo.ListRiskResults(userID, days, 0, 1000)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load risk results", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	dates := make([]string, 0, len(results))
	scores := make([]float64, 0, len(results))
	levels := make([]ml.RiskLevel, 0, len(results))

	for i := len(results) - 1; i >= 0; i-- {
		dates = append(dates, results[i].CreatedAt.Format("2006-01-02"))
		scores = append(scores, results[i].RiskScore)
		levels = append(levels, results[i].RiskLevel)
	}

	c.JSON(http.StatusOK, gin.H{
		"dates":       dates,
		"risk_scores": scores,
		"risk_levels": levels,
	})
}

// toSamples projects stored risk results into the aggregators' input type
func toSamples(results []database.RiskResult) []analysis.Sample {
	samples := make([]analysis.Sample, 0, len(results))
	for _, r := range results {
		samples = append(samples, analysis.Sample{Score: r.RiskScore, At: r.CreatedAt})
	}
	return samples
}
