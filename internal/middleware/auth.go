package middleware

import (
	"errors"
	"strings"

	"github.com/besimplit/task-tracker/internal/constants"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth authenticates the request from a bearer token or, failing
// that, the session cookie, and stores the derived actor in the context.
// Deactivated or deleted accounts are rejected on their next request.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, fromSession, ok := resolveUserID(c, authService)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, services.ErrUserNotFound) {
				apierrors.InternalError(c, "")
				c.Abort()
				return
			}
			user = nil
		}
		if user == nil || !user.IsActive {
			if fromSession {
				clearSession(c)
			}
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyActor, policy.NewActor(user))
		c.Next()
	}
}

func resolveUserID(c *gin.Context, authService *services.AuthService) (userID uint64, fromSession bool, ok bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return 0, false, false
		}
		id, err := authService.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, false, false
		}
		return id, false, true
	}

	id, ok := toUint64(sessions.Default(c).Get(constants.ContextKeyUserID))
	return id, true, ok
}

func clearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (policy.Actor, bool) {
	v, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := v.(policy.Actor)
	return actor, ok
}

func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
