package database

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting on
// mysql, postgres or sqlite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern builds a case-folded substring LIKE pattern.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}

// DefaultTaskOrder orders tasks newest first with the id as tie-breaker.
func DefaultTaskOrder(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.created_at DESC").Order("tasks.id DESC")
}

// AssignedTo restricts tasks to one assignee. A nil id leaves the query untouched.
func AssignedTo(userID *uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == nil {
			return db
		}
		return db.Where("tasks.assigned_to_id = ?", *userID)
	}
}

// CompletedIs filters on the completed flag. A nil value leaves the query untouched.
func CompletedIs(completed *bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if completed == nil {
			return db
		}
		return db.Where("tasks.completed = ?", *completed)
	}
}

// SearchTasks keeps tasks whose title or description contains text,
// case-insensitively for every letter, not only ASCII. With matchAssignee the
// assignee's email is searched too.
func SearchTasks(text string, matchAssignee bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if text == "" {
			return db
		}
		pattern := ContainsPattern(text)
		if !matchAssignee {
			return db.Where("(LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!')",
				pattern, pattern)
		}
		return db.Where("(LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!'"+
			" OR tasks.assigned_to_id IN (SELECT users.id FROM users WHERE LOWER(users.email) LIKE ? ESCAPE '!'))",
			pattern, pattern, pattern)
	}
}
