package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/besimplit/task-tracker/internal/dto"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DashboardHandler serves the administrator views.
type DashboardHandler struct {
	taskService *services.TaskService
	loc         *time.Location
	log         zerolog.Logger
}

func NewDashboardHandler(taskService *services.TaskService, loc *time.Location, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		taskService: taskService,
		loc:         loc,
		log:         log,
	}
}

// Dashboard returns every task with global and per-assignee statistics.
// Filters: ?search=, ?status=, ?user=<assignee id>.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	status, err := statusQuery(c)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	input := services.DashboardInput{
		Search: c.Query("search"),
		Status: status,
	}
	if raw := c.Query("user"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequestWithDetails(c, "user must be a positive user id", apierrors.FieldDetails{Field: "user", Rule: "invalid_id"})
			return
		}
		input.AssignedToID = &id
	}

	result, err := h.taskService.Dashboard(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Tasks:           dto.ToTaskDTOs(result.Tasks, h.loc),
		Stats:           dto.ToTaskStatsDTO(result.Stats),
		UserStats:       dto.ToUserStatsDTOs(result.UserStats),
		AssignableUsers: dto.ToUserDTOs(result.AssignableUsers),
	})
}

// AssignableUsers lists the users a task can be assigned to
func (h *DashboardHandler) AssignableUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	users, err := h.taskService.AssignableUsers(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}
