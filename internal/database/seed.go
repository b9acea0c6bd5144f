package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/besimplit/task-tracker/internal/models"
	"gorm.io/gorm"
)

// EnsureGroups creates the Administrator and Limited User groups if missing.
// Idempotent. Returns the groups keyed by name and the names that were created.
func EnsureGroups(db *gorm.DB) (map[string]models.Group, []string, error) {
	groups := make(map[string]models.Group, 2)
	var created []string

	for _, name := range []string{models.GroupAdministrator, models.GroupLimitedUser} {
		var group models.Group
		err := db.Where("name = ?", name).First(&group).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			group = models.Group{Name: name}
			if err := db.Create(&group).Error; err != nil {
				return nil, nil, fmt.Errorf("failed to create group %q: %w", name, err)
			}
			created = append(created, name)
		default:
			return nil, nil, fmt.Errorf("failed to look up group %q: %w", name, err)
		}
		groups[name] = group
	}

	return groups, created, nil
}

type demoTask struct {
	Title       string
	Description string
	Completed   bool
}

var demoTasks = []demoTask{
	{"Implement user authentication", "Set up login/logout with email credentials. Include credential validation and session handling.", true},
	{"Design the database", "Draw the ER diagram and define the models. Consider relations and the indexes the queries need.", true},
	{"Set up the development environment", "Install dependencies and configure environment variables.", true},
	{"Build the REST API", "Create endpoints for task CRUD, including request validation and response DTOs.", false},
	{"Add dynamic interactions to the frontend", "Create, edit and delete tasks without full page reloads.", false},
	{"Style the interface", "Design a modern, responsive interface.", false},
	{"Write unit tests", "Cover models, handlers and services. Aim for at least 80% coverage.", false},
	{"Optimize database queries", "Inspect slow queries and preload relations where needed.", false},
	{"Document the API", "Generate reference documentation for every REST endpoint.", false},
	{"Implement task filters", "Filter by status and search by title or description.", true},
	{"Set up continuous deployment", "Build and deploy on every merge to main.", false},
	{"Export reports", "Export the task list to CSV, spreadsheet and PDF.", true},
	{"Review pull requests", "Review the open pull requests and leave feedback.", false},
	{"Send completion emails", "Notify the task creator when a task is completed.", false},
	{"Prepare the demo", "Seed demo users and tasks for the stakeholder presentation.", false},
}

// SeedDemoTasksInput controls demo task generation.
type SeedDemoTasksInput struct {
	Count       int
	Clear       bool
	CreatorID   uint64
	AssigneeIDs []uint64
	Now         time.Time
}

// SeedDemoTasks inserts Count demo tasks, cycling through the sample data and
// assigning them round-robin. Returns the number of removed and created tasks.
func SeedDemoTasks(db *gorm.DB, input SeedDemoTasksInput) (removed int64, created int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		if input.Clear {
			res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{})
			if res.Error != nil {
				return fmt.Errorf("failed to clear tasks: %w", res.Error)
			}
			removed = res.RowsAffected
		}

		now := input.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}

		for i := 0; i < input.Count; i++ {
			sample := demoTasks[i%len(demoTasks)]
			title := sample.Title
			if i >= len(demoTasks) {
				title = fmt.Sprintf("%s (%d)", sample.Title, i/len(demoTasks)+1)
			}

			// Older tasks first so the newest sample lands on top of the list.
			ts := now.Add(-time.Duration(input.Count-i) * time.Hour)
			task := models.Task{
				Title:       title,
				Description: sample.Description,
				Completed:   sample.Completed,
				CreatedAt:   ts,
				UpdatedAt:   ts,
			}
			if input.CreatorID != 0 {
				creator := input.CreatorID
				task.CreatedByID = &creator
			}
			if len(input.AssigneeIDs) > 0 {
				assignee := input.AssigneeIDs[i%len(input.AssigneeIDs)]
				task.AssignedToID = &assignee
			}

			if err := tx.Create(&task).Error; err != nil {
				return fmt.Errorf("failed to create demo task: %w", err)
			}
			created++
		}
		return nil
	})
	return removed, created, err
}
