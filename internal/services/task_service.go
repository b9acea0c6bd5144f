package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/metrics"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/policy"
	"github.com/besimplit/task-tracker/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time

	notifyTimeout time.Duration
}

// DefaultNotifyTimeout bounds a completion notification when no
// WithNotifyTimeout option is given.
const DefaultNotifyTimeout = 10 * time.Second

// TaskServiceOption customises a TaskService.
type TaskServiceOption func(*TaskService)

// WithClock replaces the wall clock used for task timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithNotifyTimeout bounds how long a toggle waits for the completion
// notification. Non-positive values keep the default.
func WithNotifyTimeout(d time.Duration) TaskServiceOption {
	return func(s *TaskService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// NewTaskService creates a new TaskService. notifier may be nil to disable
// completion notifications.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier Notifier, log zerolog.Logger, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
		log:      log,
		now:      time.Now,

		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusFilter narrows a task list by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// ParseStatusFilter accepts all, completed or pending. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusPending:
		return StatusPending, nil
	default:
		return "", newValidationError("status", RuleOneOf, "status must be one of: all, completed, pending")
	}
}

func (f StatusFilter) completed() *bool {
	var v bool
	switch f {
	case StatusCompleted:
		v = true
	case StatusPending:
		v = false
	default:
		return nil
	}
	return &v
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search string
	Status StatusFilter
}

// TaskListResult carries the filtered tasks and the statistics of the
// actor's role-scoped set before filtering.
type TaskListResult struct {
	Tasks []models.Task
	Stats repository.TaskStats
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	AssignedToID *uint64
}

// UpdateTaskInput replaces every editable field. A nil AssignedToID clears
// the assignment.
type UpdateTaskInput struct {
	Title        string
	Description  string
	AssignedToID *uint64
}

// DashboardInput represents the administrator dashboard filters
type DashboardInput struct {
	Search       string
	Status       StatusFilter
	AssignedToID *uint64
}

// DashboardResult is the administrator overview
type DashboardResult struct {
	Tasks           []models.Task
	Stats           repository.TaskStats
	UserStats       []repository.UserTaskStats
	AssignableUsers []models.User
}

// ReportData is the input of the CSV, spreadsheet and PDF exporters
type ReportData struct {
	Tasks       []models.Task
	Stats       repository.TaskStats
	GeneratedAt time.Time
}

// ListTasks returns the tasks visible to the actor
func (s *TaskService) ListTasks(ctx context.Context, actor policy.Actor, input ListTasksInput) (*TaskListResult, error) {
	assignedTo, visible := policy.ListScope(actor)
	if !visible {
		return &TaskListResult{Tasks: []models.Task{}}, nil
	}

	stats, err := s.taskRepo.Stats(ctx, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		AssignedToID: assignedTo,
		Search:       strings.TrimSpace(input.Search),
		Completed:    input.Status.completed(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskListResult{Tasks: tasks, Stats: stats}, nil
}

// GetTask returns a task the actor can see
func (s *TaskService) GetTask(ctx context.Context, actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID, "AssignedTo", "CreatedBy")
	if err != nil {
		return nil, err
	}

	if policy.Decide(actor, policy.ActionView, task.AssignedToID) != policy.Allow {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// CreateTask validates the input, then checks the actor's role
func (s *TaskService) CreateTask(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*models.Task, error) {
	title, description, err := validateContent(input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignee(ctx, input.AssignedToID); err != nil {
		return nil, err
	}

	if policy.Decide(actor, policy.ActionCreate, nil) != policy.Allow {
		return nil, ErrForbidden
	}

	now := s.timestamp()
	creatorID := actor.UserID
	task := &models.Task{
		Title:        title,
		Description:  description,
		Completed:    false,
		AssignedToID: copyID(input.AssignedToID),
		CreatedByID:  &creatorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	metrics.TasksCreatedTotal.Inc()

	s.log.Info().
		Uint64("task_id", task.ID).
		Uint64("actor_id", actor.UserID).
		Msg("task created")

	return s.reload(ctx, task.ID)
}

// UpdateTask replaces title, description and assignment
func (s *TaskService) UpdateTask(ctx context.Context, actor policy.Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch policy.Decide(actor, policy.ActionUpdate, task.AssignedToID) {
	case policy.DenyNotFound:
		return nil, ErrTaskNotFound
	case policy.DenyForbidden:
		return nil, ErrForbidden
	}

	title, description, err := validateContent(input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignee(ctx, input.AssignedToID); err != nil {
		return nil, err
	}

	task.Title = title
	task.Description = description
	task.AssignedToID = copyID(input.AssignedToID)
	task.UpdatedAt = s.advance(task.UpdatedAt)

	if err := s.saveTask(ctx, task, "update"); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint64("task_id", task.ID).
		Uint64("actor_id", actor.UserID).
		Msg("task updated")

	return s.reload(ctx, task.ID)
}

// ToggleTask flips the completion flag. The returned task carries the new
// state. A pending to completed transition notifies the creator; a failed
// notification is logged and never fails the toggle.
func (s *TaskService) ToggleTask(ctx context.Context, actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID, "AssignedTo", "CreatedBy")
	if err != nil {
		return nil, err
	}

	if policy.Decide(actor, policy.ActionToggle, task.AssignedToID) != policy.Allow {
		return nil, ErrTaskNotFound
	}

	wasPending := !task.Completed
	task.Completed = !task.Completed
	task.UpdatedAt = s.advance(task.UpdatedAt)

	if err := s.saveTask(ctx, task, "toggle"); err != nil {
		return nil, err
	}
	metrics.TaskTogglesTotal.WithLabelValues(strconv.FormatBool(task.Completed)).Inc()

	s.log.Info().
		Uint64("task_id", task.ID).
		Uint64("actor_id", actor.UserID).
		Bool("completed", task.Completed).
		Msg("task toggled")

	if wasPending && task.CreatedByID != nil && task.AssignedToID != nil {
		s.notifyCompleted(ctx, task)
	}

	return task, nil
}

// DeleteTask hard deletes a task. The role check runs before the lookup, so
// a non-administrator gets ErrForbidden even for an unknown id.
func (s *TaskService) DeleteTask(ctx context.Context, actor policy.Actor, taskID uint64) error {
	if policy.Decide(actor, policy.ActionDelete, nil) != policy.Allow {
		return ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	metrics.TasksDeletedTotal.Inc()

	s.log.Info().
		Uint64("task_id", taskID).
		Uint64("actor_id", actor.UserID).
		Msg("task deleted")

	return nil
}

// Dashboard returns the administrator overview. Search also matches the
// assignee's email.
func (s *TaskService) Dashboard(ctx context.Context, actor policy.Actor, input DashboardInput) (*DashboardResult, error) {
	if policy.Decide(actor, policy.ActionDashboard, nil) != policy.Allow {
		return nil, ErrForbidden
	}

	stats, err := s.taskRepo.Stats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		AssignedToID:  input.AssignedToID,
		Search:        strings.TrimSpace(input.Search),
		MatchAssignee: true,
		Completed:     input.Status.completed(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	userStats, err := s.userRepo.TaskStatsByGroup(ctx, models.GroupLimitedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user statistics: %w", err)
	}

	users, err := s.userRepo.ListByGroup(ctx, models.GroupLimitedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable users: %w", err)
	}

	return &DashboardResult{
		Tasks:           tasks,
		Stats:           stats,
		UserStats:       userStats,
		AssignableUsers: users,
	}, nil
}

// AssignableUsers lists the Limited Users a task can be assigned to
func (s *TaskService) AssignableUsers(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if policy.Decide(actor, policy.ActionCreate, nil) != policy.Allow {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.ListByGroup(ctx, models.GroupLimitedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable users: %w", err)
	}
	return users, nil
}

// Report collects every task in default order with global statistics
func (s *TaskService) Report(ctx context.Context, actor policy.Actor) (*ReportData, error) {
	if policy.Decide(actor, policy.ActionExport, nil) != policy.Allow {
		return nil, ErrForbidden
	}

	stats, err := s.taskRepo.Stats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &ReportData{
		Tasks:       tasks,
		Stats:       stats,
		GeneratedAt: s.now(),
	}, nil
}

func (s *TaskService) notifyCompleted(ctx context.Context, task *models.Task) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.TaskCompleted(ctx, task); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		s.log.Warn().
			Err(err).
			Uint64("task_id", task.ID).
			Msg("completion notification failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}

// saveTask writes a loaded task back. A task deleted since it was loaded
// surfaces as ErrTaskNotFound.
func (s *TaskService) saveTask(ctx context.Context, task *models.Task, op string) error {
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to %s task: %w", op, err)
	}
	return nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) reload(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.findTask(ctx, taskID, "AssignedTo", "CreatedBy")
}

func (s *TaskService) validateAssignee(ctx context.Context, assignedToID *uint64) error {
	if assignedToID == nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, *assignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newValidationError("assigned_to_id", RuleInvalidAssignee, "assigned user does not exist")
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}

	if policy.NewActor(user).Role != policy.RoleLimitedUser {
		return newValidationError("assigned_to_id", RuleInvalidAssignee, "tasks can only be assigned to limited users")
	}
	return nil
}

// timestamp returns the current time at the resolution every supported
// store can round-trip.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// advance returns a timestamp strictly after previous.
func (s *TaskService) advance(previous time.Time) time.Time {
	next := s.timestamp()
	if !next.After(previous) {
		next = previous.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}

func validateContent(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	n := utf8.RuneCountInString(title)
	if n == 0 {
		return "", "", newValidationError("title", RuleRequired, "title is required")
	}
	if n < constants.MinTitleLength {
		return "", "", newValidationError("title", RuleMinLength,
			fmt.Sprintf("title must be at least %d characters long", constants.MinTitleLength))
	}
	if n > constants.MaxTitleLength {
		return "", "", newValidationError("title", RuleMaxLength,
			fmt.Sprintf("title must be at most %d characters long", constants.MaxTitleLength))
	}
	return title, description, nil
}

func copyID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
