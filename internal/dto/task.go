package dto

import (
	"time"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/repository"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Completed          bool      `json:"completed"`
	AssignedToID       *uint64   `json:"assigned_to_id"`
	CreatedByID        *uint64   `json:"created_by_id"`
	AssignedTo         *UserDTO  `json:"assigned_to"`
	CreatedBy          *UserDTO  `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	UpdatedAtFormatted string    `json:"updated_at_formatted"`
}

// TaskStatsDTO holds aggregate counts over the role-scoped task set
type TaskStatsDTO struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// TaskListResponse represents a filtered list of tasks with pre-filter statistics
type TaskListResponse struct {
	Tasks []TaskDTO    `json:"tasks"`
	Stats TaskStatsDTO `json:"stats"`
}

// ToggleResponse represents the outcome of a completion toggle
type ToggleResponse struct {
	ID        uint64    `json:"id"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO. Timestamps are formatted in loc.
func ToTaskDTO(task models.Task, loc *time.Location) TaskDTO {
	if loc == nil {
		loc = time.UTC
	}

	dto := TaskDTO{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Completed:          task.Completed,
		AssignedToID:       task.AssignedToID,
		CreatedByID:        task.CreatedByID,
		CreatedAt:          task.CreatedAt.UTC(),
		UpdatedAt:          task.UpdatedAt.UTC(),
		CreatedAtFormatted: task.CreatedAt.In(loc).Format(constants.DisplayTimeFormat),
		UpdatedAtFormatted: task.UpdatedAt.In(loc).Format(constants.DisplayTimeFormat),
	}

	// Include users if preloaded
	if task.AssignedTo != nil {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}
	if task.CreatedBy != nil {
		creator := ToUserDTO(*task.CreatedBy)
		dto.CreatedBy = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, loc *time.Location) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, loc)
	}
	return items
}

// ToTaskStatsDTO converts repository statistics
func ToTaskStatsDTO(stats repository.TaskStats) TaskStatsDTO {
	return TaskStatsDTO{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending(),
		CompletionRate: stats.CompletionRate(),
	}
}

// ToTaskListResponse converts a task list and its statistics
func ToTaskListResponse(tasks []models.Task, stats repository.TaskStats, loc *time.Location) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks, loc),
		Stats: ToTaskStatsDTO(stats),
	}
}

// ToToggleResponse converts a toggled task
func ToToggleResponse(task models.Task) ToggleResponse {
	return ToggleResponse{
		ID:        task.ID,
		Completed: task.Completed,
		UpdatedAt: task.UpdatedAt.UTC(),
	}
}
