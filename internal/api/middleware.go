package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumora-health/lumora-backend/internal/database"
	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

// RequireAuth validates the bearer token and stores the authenticated user id
// in the request context for downstream handlers.
func RequireAuth(users *database.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			appErr := apperrors.NewUnauthorizedError("Missing authorization header")
			c.JSON(appErr.HTTPStatus, appErr)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			appErr := apperrors.NewUnauthorizedError("Invalid authorization header")
			c.JSON(appErr.HTTPStatus, appErr)
			c.Abort()
			return
		}

		userID, err := users.ValidateSessionToken(parts[1])
		if err != nil {
			appErr := apperrors.NewUnauthorizedError("Invalid or expired token")
			c.JSON(appErr.HTTPStatus, appErr)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
