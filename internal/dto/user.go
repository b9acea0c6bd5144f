package dto

import (
	"time"

	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/besimplit/task-tracker/internal/repository"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// MeDTO describes the authenticated user and the role derived from its groups
type MeDTO struct {
	ID          uint64    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Groups      []string  `json:"groups"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	JoinedAt    time.Time `json:"joined_at"`
}

// TokenResponse carries a bearer token for API clients
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserStatsDTO holds the task counts of one assignee
type UserStatsDTO struct {
	User      UserDTO `json:"user"`
	Total     int64   `json:"total"`
	Completed int64   `json:"completed"`
}

// DashboardResponse is the administrator overview
type DashboardResponse struct {
	Tasks           []TaskDTO      `json:"tasks"`
	Stats           TaskStatsDTO   `json:"stats"`
	UserStats       []UserStatsDTO `json:"user_stats"`
	AssignableUsers []UserDTO      `json:"assignable_users"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToMeDTO converts a user with preloaded groups
func ToMeDTO(user models.User) MeDTO {
	return MeDTO{
		ID:          user.ID,
		Email:       user.Email,
		Role:        policy.NewActor(&user).Role.String(),
		Groups:      user.GroupNames(),
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		JoinedAt:    user.JoinedAt.UTC(),
	}
}

// ToUserStatsDTOs converts per-assignee statistics
func ToUserStatsDTOs(stats []repository.UserTaskStats) []UserStatsDTO {
	items := make([]UserStatsDTO, len(stats))
	for i, s := range stats {
		items[i] = UserStatsDTO{
			User:      UserDTO{ID: s.UserID, Email: s.Email},
			Total:     s.Total,
			Completed: s.Completed,
		}
	}
	return items
}
