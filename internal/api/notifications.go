package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

// ListNotifications returns the user's notifications, newest first
func (h *Handlers) ListNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")
	unreadOnly := c.Query("unread_only") == "true"
	offset := queryInt(c, "skip", 0, 0, 1<<30)
	limit := queryInt(c, "limit", 100, 1, 500)

	notifications, err := h.repo.ListNotifications(userID, unreadOnly, offset, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load notifications", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one notification as read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	notificationID, err := strconv.ParseInt(c.Param("notification_id"), 10, 64)
	if err != nil {
		appErr := apperrors.NewValidationError("Invalid notification id")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	updated, err := h.repo.MarkNotificationRead(notificationID, userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to update notification", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if !updated {
		appErr := apperrors.NewNotFoundError("Notification")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_as_read": true})
}

// MarkAllNotificationsRead marks every unread notification as read
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	count, err := h.repo.MarkAllNotificationsRead(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to update notifications", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_as_read": count})
}

// ListAlerts returns the user's alert records, newest first
func (h *Handlers) ListAlerts(c *gin.Context) {
	userID := c.GetInt64("user_id")
	offset := queryInt(c, "skip", 0, 0, 1<<30)
	limit := queryInt(c, "limit", 50, 1, 500)

	alertRecords, err := h.repo.ListAlerts(userID, offset, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load alerts", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, alertRecords)
}

// MarkAlertRead marks one alert as read
func (h *Handlers) MarkAlertRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	alertID, err := strconv.ParseInt(c.Param("alert_id"), 10, 64)
	if err != nil {
		appErr := apperrors.NewValidationError("Invalid alert id")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	updated, err := h.repo.MarkAlertRead(alertID, userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to update alert", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if !updated {
		appErr := apperrors.NewNotFoundError("Alert")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_as_read": true})
}
