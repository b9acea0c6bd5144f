package handlers

import (
	"net/http"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/dto"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/middleware"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log zerolog.Logger) *AuthHandler {
	useJSONFieldNames()
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) authenticate(c *gin.Context) (*models.User, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, bindingMessage(err))
		return nil, false
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return nil, false
	}

	return user, true
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}
	me := dto.ToMeDTO(*user)

	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, me.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	h.log.Info().Uint64("user_id", me.ID).Str("role", me.Role).Msg("user logged in")
	c.JSON(http.StatusOK, me)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user and its derived role.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeDTO(*user))
}

// IssueToken exchanges credentials for a bearer token. No session is created.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	token, expiresAt, err := h.authService.IssueToken(user)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
	})
}
