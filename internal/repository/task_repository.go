package repository

import (
	"context"

	"github.com/besimplit/task-tracker/internal/database"
	"github.com/besimplit/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(
			database.AssignedTo(filter.AssignedToID),
			database.SearchTasks(filter.Search, filter.MatchAssignee),
			database.CompletedIs(filter.Completed),
			database.DefaultTaskOrder,
		).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Stats counts total and completed tasks
func (r *GormTaskRepository) Stats(ctx context.Context, assignedToID *uint64) (TaskStats, error) {
	var stats TaskStats

	base := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(database.AssignedTo(assignedToID))
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return TaskStats{}, err
	}

	completed := true
	if err := base.Session(&gorm.Session{}).Scopes(database.CompletedIs(&completed)).Count(&stats.Completed).Error; err != nil {
		return TaskStats{}, err
	}

	return stats, nil
}

// Update writes the mutable columns of an existing task. Associations are
// never written through the task, and a task that no longer exists returns
// gorm.ErrRecordNotFound instead of being inserted again.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	res := r.db.WithContext(ctx).
		Model(task).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard deletes a task. Deleting a missing task returns gorm.ErrRecordNotFound.
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
