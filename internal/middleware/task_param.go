package middleware

import (
	"strconv"

	"github.com/besimplit/task-tracker/internal/constants"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/gin-gonic/gin"
)

// RequireTaskID parses the :id path parameter. Visibility is decided by the
// task service, so this only rejects malformed ids.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the task ID parsed by RequireTaskID
func GetTaskID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyTaskID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
