package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora-health/lumora-backend/internal/database"
	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *database.User `json:"user"`
}

// Register creates a new account
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid registration payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	user, err := h.users.Register(req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			appErr := apperrors.NewConflictError("Email is already registered")
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		appErr := apperrors.NewInternalError("Failed to register user", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	token, err := h.users.GenerateSessionToken(user.ID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to issue token", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Login authenticates a user and issues a bearer token
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("Invalid login payload", err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			appErr := apperrors.NewUnauthorizedError("Invalid email or password")
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		appErr := apperrors.NewInternalError("Login failed", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	token, err := h.users.GenerateSessionToken(user.ID)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to issue token", err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
