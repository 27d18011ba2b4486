package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumora-health/lumora-backend/internal/database"
	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

type depressionTestRequest struct {
	Mood                 *string `json:"mood,omitempty"`
	SleepHour            *string `json:"sleep_hour,omitempty"`
	Appetite             *string `json:"appetite,omitempty"`
	Exercise             *string `json:"exercise,omitempty"`
	ScreenTime           *string `json:"screen_time,omitempty"`
	AcademicWork         *string `json:"academic_work,omitempty"`
	Socialize            *string `json:"socialize,omitempty"`
	EnergyLevel          *int    `json:"energy_level,omitempty" binding:"omitempty,min=0,max=10"`
	TroubleConcentrating *string `json:"trouble_concentrating,omitempty"`
	NegativeThoughts     *string `json:"negative_thoughts,omitempty"`
	DecisionMaking       *string `json:"decision_making,omitempty"`
	BotheredThings       *string `json:"bothered_things,omitempty"`
	StressfulEvents      *string `json:"stressful_events,omitempty"`
	SleepyTired          *string `json:"sleepy_tired,omitempty"`
	FutureHope           *string `json:"future_hope,omitempty"`
}

// CreateDepressionTest persists a submitted questionnaire. Tests are
// immutable once created.
func (h *Handlers) CreateDepressionTest(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req depressionTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid questionnaire payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	test := &database.DepressionTest{
		UserID:               userID,
		Mood:                 req.Mood,
		SleepHour:            req.SleepHour,
		Appetite:             req.Appetite,
		Exercise:             req.Exercise,
		ScreenTime:           req.ScreenTime,
		AcademicWork:         req.AcademicWork,
		Socialize:            req.Socialize,
		EnergyLevel:          req.EnergyLevel,
		TroubleConcentrating: req.TroubleConcentrating,
		NegativeThoughts:     req.NegativeThoughts,
		DecisionMaking:       req.DecisionMaking,
		BotheredThings:       req.BotheredThings,
		StressfulEvents:      req.StressfulEvents,
		SleepyTired:          req.SleepyTired,
		FutureHope:           req.FutureHope,
	}

	created, err := h.repo.CreateDepressionTest(test)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to save depression test", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListDepressionTests returns the user's own questionnaires, newest first
func (h *Handlers) ListDepressionTests(c *gin.Context) {
	userID := c.GetInt64("user_id")
	offset := queryInt(c, "skip", 0, 0, 1<<30)
	limit := queryInt(c, "limit", 50, 1, 500)

	tests, err := h.repo.ListDepressionTests(userID, offset, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load depression tests", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetDepressionTest returns one questionnaire, enforcing ownership
func (h *Handlers) GetDepressionTest(c *gin.Context) {
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

	result, err := h.repo.RiskResultForTest(testID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load risk result", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, depressionTestResponse{DepressionTest: test, RiskResult: result})
}

// depressionTestResponse is the test detail payload: the questionnaire plus
// its most recent risk result, nil while the test is unscored.
type depressionTestResponse struct {
	*database.DepressionTest
	RiskResult *database.RiskResult `json:"risk_result"`
}
