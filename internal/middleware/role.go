package middleware

import (
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/gin-gonic/gin"
)

// RequireRole rejects actors below the given role with 403. It must run
// after RequireAuth. Services still apply the full decision table; this
// only short-circuits routes that are administrator-only as a whole.
func RequireRole(role policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if actor.Role < role {
			apierrors.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
