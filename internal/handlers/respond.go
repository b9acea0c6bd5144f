package handlers

import (
	"errors"
	"fmt"

	"github.com/besimplit/task-tracker/internal/constants"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/middleware"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondServiceError maps service errors onto API errors. Anything
// unexpected is logged and reported as a 500.
func respondServiceError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Message, apierrors.FieldDetails{Field: verr.Field, Rule: verr.Rule})
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "You do not have permission to perform this action")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid email or password")
	case errors.Is(err, services.ErrInactiveUser):
		apierrors.AccountInactive(c, "This account is inactive")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already exists")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	default:
		_ = c.Error(err)
		log.Error().
			Err(err).
			Str("request_id", c.GetString(constants.ContextKeyRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
		apierrors.InternalError(c, "")
	}
}

// currentActor returns the actor stored by RequireAuth, writing a 401 when
// the route was mounted without it.
func currentActor(c *gin.Context) (policy.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return policy.Actor{}, false
	}
	return actor, true
}
