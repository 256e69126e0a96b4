// Package handlers contains the gin request handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/internal/services"
)

// UserHandler serves the auth endpoints.
type UserHandler struct {
	userService *services.UserService
	jwtService  *services.JWTService
	logger      *logrus.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, jwtService *services.JWTService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, jwtService: jwtService, logger: logger}
}

// RegisterHandler handles user registration. Validation failures are
// mapped to per-field messages; a duplicate email reports the same error
// whether caught by the pre-check or the unique constraint.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.userService.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		case errors.Is(err, services.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		default:
			h.logger.Errorf("Failed to register user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginHandler authenticates a user and returns a session token.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.userService.Authenticate(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger.Errorf("Failed to authenticate user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error signing in"})
		return
	}

	token, err := h.jwtService.GenerateToken(uint(user.ID), user.Email)
	if err != nil {
		h.logger.Errorf("Failed to generate JWT token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// MeHandler returns the identity behind the current session. Mostly
// useful to the frontend and the middleware tests.
func (h *UserHandler) MeHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
		return
	}
	userEmail, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User email not found in context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"email":   userEmail,
	})
}

// ForgotPasswordHandler starts the password-reset flow. Always responds
// 200 for well-formed requests so the endpoint cannot confirm whether an
// account exists.
func (h *UserHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.UserForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.userService.ForgotPassword(req.Email); err != nil {
		h.logger.Errorf("Failed to process password reset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPasswordHandler completes the password-reset flow.
func (h *UserHandler) ResetPasswordHandler(c *gin.Context) {
	var req models.UserResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	token := c.Param("token")

	if err := h.userService.ResetPassword(token, req.Password); err != nil {
		if errors.Is(err, services.ErrPasswordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
