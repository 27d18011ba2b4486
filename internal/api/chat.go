package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora-health/lumora-backend/internal/chatbot"
	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

type chatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// ChatMessage answers a supportive-chat message, personalizing suggestions
// from the user's recent mood and risk history when available.
func (h *Handlers) ChatMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid chat payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	botCtx := h.buildChatContext(userID)
	response := h.bot.Reply(req.Message, botCtx)

	c.JSON(http.StatusOK, response)
}

// buildChatContext gathers recent history; any failure degrades to a nil
// context rather than failing the chat request.
func (h *Handlers) buildChatContext(userID int64) *chatbot.Context {
	ctx := &chatbot.Context{}

	entries, err := h.repo.ListMoodEntries(userID, 30, 1000)
	if err == nil {
		ctx.TotalEntries = len(entries)
		if len(entries) > 0 {
			ctx.RecentMoodLevel = &entries[0].MoodType

			sum := 0
			for _, entry := range entries {
				sum += moodScore(entry.MoodType)
			}
			avg := float64(sum) / float64(len(entries))
			ctx.AverageMood = &avg
		}
	}

	if latest, err := h.repo.LatestRiskResult(userID); err == nil && latest != nil {
		ctx.RecentRiskScore = &latest.RiskScore
	}

	return ctx
}
