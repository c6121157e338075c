// Package notify implements the assignment-notice side channel. The
// service layer treats notifiers as fire-and-forget: errors returned
// here are logged by the caller and never reach the client.
package notify

import (
	"context"
	"log/slog"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// LogNotifier records assignment notices in the structured log. It is
// the default when no external channel is configured.
type LogNotifier struct{}

// TaskAssigned logs the assignment notice.
func (LogNotifier) TaskAssigned(ctx context.Context, task domain.Task, assigneeID string) error {
	slog.Info("task assignment notice",
		"task_id", task.ID,
		"task_title", task.Title,
		"assignee_id", assigneeID,
	)
	return nil
}
