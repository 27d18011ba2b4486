package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

type createMoodRequest struct {
	MoodType string  `json:"mood_type" binding:"required,min=1,max=32"`
	Note     *string `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// moodScore maps a mood level string onto the 1..5 scale used for statistics
// and charts. Unrecognized moods count as neutral.
func moodScore(moodType string) int {
	switch strings.ToLower(moodType) {
	case "very_poor":
		return 1
	case "poor":
		return 2
	case "fair":
		return 3
	case "good":
		return 4
	case "excellent":
		return 5
	default:
		return 3
	}
}

// CreateMood records a mood journal entry
func (h *Handlers) CreateMood(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req createMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid mood payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	entry, err := h.repo.CreateMoodEntry(userID, req.MoodType, req.Note)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to save mood entry", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	h.cache.InvalidateUser(userID)

	c.JSON(http.StatusCreated, entry)
}

// ListMoods returns the user's mood entries, newest first
func (h *Handlers) ListMoods(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 30, 1, 365)
	limit := queryInt(c, "limit", 100, 1, 1000)

	entries, err := h.repo.ListMoodEntries(userID, days, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load mood entries", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// MoodStats returns entry count and average mood over a window
func (h *Handlers) MoodStats(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 30, 1, 365)

	entries, err := h.repo.ListMoodEntries(userID, days, 1000)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load mood entries", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	var averageMood *float64
	if len(entries) > 0 {
		sum := 0
		for _, entry := range entries {
			sum += moodScore(entry.MoodType)
		}
		avg := float64(sum) / float64(len(entries))
		averageMood = &avg
	}

	c.JSON(http.StatusOK, gin.H{
		"total_entries": len(entries),
		"average_mood":  averageMood,
		"period_days":   days,
	})
}

// MoodChart returns mood chart data, oldest first
func (h *Handlers) MoodChart(c *gin.Context) {
	userID := c.GetInt64("user_id")
	days := queryInt(c, "days", 30, 1, 365)

	entries, err := h.repo.ListMoodEntries(userID, days, 1000)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load mood entries", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	dates := make([]string, 0, len(entries))
	moodLevels := make([]int, 0, len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		dates = append(dates, entries[i].CreatedAt.Format("2006-01-02"))
		moodLevels = append(moodLevels, moodScore(entries[i].MoodType))
	}

	c.JSON(http.StatusOK, gin.H{
		"dates":       dates,
		"mood_levels": moodLevels,
	})
}

// queryInt parses an integer query parameter with a default and bounds
func queryInt(c *gin.Context, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
