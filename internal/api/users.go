package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

type updateUserRequest struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=120"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8,max=128"`
}

type emergencyContactRequest struct {
	Name         string  `json:"contact_name" binding:"required,min=1,max=120"`
	Email        string  `json:"contact_email" binding:"required,email"`
	Relationship *string `json:"contact_relationship,omitempty"`
}

// GetMe returns the authenticated user's profile
func (h *Handlers) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load user", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if user == nil {
		appErr := apperrors.NewNotFoundError("User")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe updates profile fields; only provided fields change
func (h *Handlers) UpdateMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid update payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	var hashedPassword *string
	if req.Password != nil {
		hashed, err := h.users.HashPassword(*req.Password)
		if err != nil {
			appErr := apperrors.NewInternalError("Failed to hash password", err)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		hashedPassword = &hashed
	}

	user, err := h.repo.UpdateUser(userID, req.FullName, req.Email, hashedPassword)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to update user", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if user == nil {
		appErr := apperrors.NewNotFoundError("User")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteMe removes the account and, through cascading deletes, every record
// derived from it.
func (h *Handlers) DeleteMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	deleted, err := h.repo.DeleteUser(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to delete user", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if !deleted {
		appErr := apperrors.NewNotFoundError("User")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	h.cache.InvalidateUser(userID)
	if err := h.limiter.InvalidateUser(c.Request.Context(), userID); err != nil {
		h.logger.Warn("failed to reset rate limits for deleted user", "user_id", userID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// PutEmergencyContact creates or replaces the user's single emergency contact
func (h *Handlers) PutEmergencyContact(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req emergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid contact payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	contact, err := h.repo.UpsertEmergencyContact(userID, req.Name, req.Email, req.Relationship)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to save emergency contact", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// GetEmergencyContact returns the user's emergency contact
func (h *Handlers) GetEmergencyContact(c *gin.Context) {
	userID := c.GetInt64("user_id")

	contact, err := h.repo.GetEmergencyContact(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to load emergency contact", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if contact == nil {
		appErr := apperrors.NewNotFoundError("Emergency contact")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteEmergencyContact removes the user's emergency contact
func (h *Handlers) DeleteEmergencyContact(c *gin.Context) {
	userID := c.GetInt64("user_id")

	deleted, err := h.repo.DeleteEmergencyContact(userID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to delete emergency contact", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if !deleted {
		appErr := apperrors.NewNotFoundError("Emergency contact")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
