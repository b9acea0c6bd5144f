package handlers

import (
	"github.com/besimplit/task-tracker/internal/middleware"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Tasks     *TaskHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the API. The session middleware must already be
// installed on r.
func RegisterRoutes(r gin.IRouter, h Handlers, authService *services.AuthService) {
	requireAuth := middleware.RequireAuth(authService)

	if h.Health != nil {
		r.GET("/health", h.Health.Liveness)
		r.GET("/health/ready", h.Health.Readiness)
	}

	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/token", h.Auth.IssueToken)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.Tasks.ListTasks)
			tasks.POST("", h.Tasks.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskID(), h.Tasks.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), h.Tasks.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), h.Tasks.DeleteTask)
			tasks.POST("/:id/toggle", middleware.RequireTaskID(), h.Tasks.ToggleTask)
			tasks.PATCH("/:id/toggle", middleware.RequireTaskID(), h.Tasks.ToggleTask)
		}

		admin := api.Group("")
		admin.Use(requireAuth, middleware.RequireRole(policy.RoleAdministrator))
		{
			admin.GET("/users/assignable", h.Dashboard.AssignableUsers)
			admin.GET("/dashboard", h.Dashboard.Dashboard)
			admin.GET("/export/:format", h.Export.Export)
		}
	}
}
