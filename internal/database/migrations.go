package database

import (
	"fmt"

	"github.com/besimplit/task-tracker/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all models. Indexes on
// tasks(created_at), tasks(completed) and tasks(assigned_to_id) come from
// the model tags.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
