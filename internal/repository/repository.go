package repository

import (
	"context"

	"github.com/besimplit/task-tracker/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter in default task order,
	// with AssignedTo and CreatedBy preloaded
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Stats counts tasks, optionally restricted to one assignee
	Stats(ctx context.Context, assignedToID *uint64) (TaskStats, error)

	// Update persists all task columns atomically. A missing task returns
	// gorm.ErrRecordNotFound
	Update(ctx context.Context, task *models.Task) error

	// Delete hard deletes a task
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedToID *uint64
	Search       string
	// MatchAssignee extends Search to the assignee's email.
	MatchAssignee bool
	Completed     *bool
}

// TaskStats are aggregate counts over a set of tasks
type TaskStats struct {
	Total     int64
	Completed int64
}

// Pending returns the number of tasks not completed.
func (s TaskStats) Pending() int64 {
	return s.Total - s.Completed
}

// CompletionRate returns completed/total*100, or 0 for an empty set.
func (s TaskStats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// UserTaskStats are the task counts of a single assignee
type UserTaskStats struct {
	UserID    uint64
	Email     string
	Total     int64
	Completed int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a user together with its group memberships. Either
	// both are stored or neither is.
	Create(ctx context.Context, user *models.User, groups ...models.Group) error

	// FindByID finds a user by ID with groups preloaded
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email with groups preloaded
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ListByGroup lists the members of a group ordered by email
	ListByGroup(ctx context.Context, groupName string) ([]models.User, error)

	// TaskStatsByGroup counts assigned tasks for every member of a group,
	// ordered by total descending then user ID
	TaskStatsByGroup(ctx context.Context, groupName string) ([]UserTaskStats, error)

	// FindGroups finds groups by name
	FindGroups(ctx context.Context, names ...string) ([]models.Group, error)

	// SetActive updates the user's active flag
	SetActive(ctx context.Context, id uint64, active bool) error

	// Delete hard deletes a user, clearing task references to it first
	Delete(ctx context.Context, id uint64) error
}
