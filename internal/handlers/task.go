package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/besimplit/task-tracker/internal/dto"
	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/middleware"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	taskService *services.TaskService
	loc         *time.Location
	log         zerolog.Logger
}

func NewTaskHandler(taskService *services.TaskService, loc *time.Location, log zerolog.Logger) *TaskHandler {
	useJSONFieldNames()
	return &TaskHandler{
		taskService: taskService,
		loc:         loc,
		log:         log,
	}
}

// taskRequest is the body of create and update. Title rules are checked by
// the service so that every violation reports its field and rule.
type taskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AssignedToID *uint64 `json:"assigned_to_id"`
}

// statusQuery reads ?status=, falling back to the legacy ?completed=true|false.
func statusQuery(c *gin.Context) (services.StatusFilter, error) {
	status := c.Query("status")
	if status == "" {
		switch strings.ToLower(c.Query("completed")) {
		case "true":
			status = string(services.StatusCompleted)
		case "false":
			status = string(services.StatusPending)
		}
	}
	return services.ParseStatusFilter(status)
}

// ListTasks returns the tasks visible to the current user with the
// statistics of the unfiltered set.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	status, err := statusQuery(c)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	result, err := h.taskService.ListTasks(c.Request.Context(), actor, services.ListTasksInput{
		Search: c.Query("search"),
		Status: status,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(result.Tasks, result.Stats, h.loc))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, _ := middleware.GetTaskID(c)

	task, err := h.taskService.GetTask(c.Request.Context(), actor, taskID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.loc))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, bindingMessage(err))
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.loc))
}

// UpdateTask replaces the editable fields of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, _ := middleware.GetTaskID(c)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, bindingMessage(err))
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, taskID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.loc))
}

// ToggleTask flips the completion flag
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, _ := middleware.GetTaskID(c)

	task, err := h.taskService.ToggleTask(c.Request.Context(), actor, taskID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToToggleResponse(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, _ := middleware.GetTaskID(c)

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, taskID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
