package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/notification"
)

// Notifier is told about completion transitions.
type Notifier interface {
	TaskCompleted(ctx context.Context, task *models.Task) error
}

var errMissingParticipants = errors.New("task creator or assignee not loaded")

// CompletionNotifier mails the task creator when a task is completed.
type CompletionNotifier struct {
	mailer notification.Mailer
	loc    *time.Location
}

// NewCompletionNotifier formats timestamps in loc, UTC when nil.
func NewCompletionNotifier(mailer notification.Mailer, loc *time.Location) *CompletionNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &CompletionNotifier{mailer: mailer, loc: loc}
}

// TaskCompleted expects CreatedBy and AssignedTo to be preloaded.
func (n *CompletionNotifier) TaskCompleted(ctx context.Context, task *models.Task) error {
	msg, err := n.compose(task)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send completion mail: %w", err)
	}
	return nil
}

func (n *CompletionNotifier) compose(task *models.Task) (notification.Message, error) {
	if task.CreatedBy == nil || task.AssignedTo == nil {
		return notification.Message{}, errMissingParticipants
	}

	description := task.Description
	if strings.TrimSpace(description) == "" {
		description = "No description"
	}

	var body strings.Builder
	body.WriteString("Task completed successfully.\n\n")
	body.WriteString("Details:\n")
	fmt.Fprintf(&body, "- Task: %s\n", task.Title)
	fmt.Fprintf(&body, "- Completed by: %s\n", task.AssignedTo.Email)
	fmt.Fprintf(&body, "- Completed at: %s\n", task.UpdatedAt.In(n.loc).Format(constants.DisplayTimeFormat))
	fmt.Fprintf(&body, "- Description: %s\n", description)

	return notification.Message{
		To:      task.CreatedBy.Email,
		Subject: "Task completed: " + task.Title,
		Body:    body.String(),
	}, nil
}
