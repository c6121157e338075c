package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// notifyTimeout bounds a single notification attempt.
const notifyTimeout = 10 * time.Second

// TaskService coordinates task operations: each method runs the same
// short-circuiting pipeline of load, authorize, validate, mutate, and a
// best-effort notification side channel.
type TaskService struct {
	tasks    TaskRepository
	users    UserRepository
	notifier Notifier
}

// NewTaskService creates a new TaskService. notifier may be nil, in
// which case assignment notices are skipped.
func NewTaskService(tasks TaskRepository, users UserRepository, notifier Notifier) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
	}
}

// requireUser fetches a user by ID, wrapping the not-found case with the
// role the id plays in the operation ("creator", "assignee").
func (s *TaskService) requireUser(ctx context.Context, userID, as string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", as, userID, err)
	}
	return user, nil
}

// CreateTask validates and persists a new task. The creator and, when
// present, the assignee must resolve to existing users.
func (s *TaskService) CreateTask(ctx context.Context, props domain.CreateTaskProps) (*domain.Task, error) {
	task, err := domain.NewTask(props)
	if err != nil {
		slog.Error("task creation rejected", "project_id", props.ProjectID, "creator_id", props.CreatedBy, "error", err)
		return nil, err
	}

	if _, err := s.requireUser(ctx, task.CreatedBy, "creator"); err != nil {
		return nil, err
	}
	if task.AssigneeID != nil {
		if _, err := s.requireUser(ctx, *task.AssigneeID, "assignee"); err != nil {
			return nil, err
		}
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	slog.Info("task created",
		"task_id", created.ID,
		"project_id", created.ProjectID,
		"creator_id", created.CreatedBy,
		"status", created.Status,
	)

	if created.AssigneeID != nil {
		s.notifyAssignment(ctx, *created, *created.AssigneeID)
	}

	return created, nil
}

// GetTask retrieves a single task.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// ListTasks retrieves tasks matching the filter.
func (s *TaskService) ListTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error) {
	return s.tasks.List(ctx, filter)
}

// ProjectTasks retrieves all tasks of a project.
func (s *TaskService) ProjectTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// AssigneeTasks retrieves all tasks assigned to a user.
func (s *TaskService) AssigneeTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, userID)
}

// UpdateTask applies a partial update. When an actor is supplied, the
// general update permission is evaluated over the patch's field set.
// A status in the patch is validated against the currently stored
// status before anything is persisted.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, patch domain.TaskPatch, actor *domain.Actor) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if actor != nil {
		if err := CanUpdateTask(*task, *actor, patch.Fields()); err != nil {
			slog.Warn("task update denied",
				"task_id", taskID,
				"actor_id", actor.ID,
				"fields", patch.Fields(),
			)
			return nil, err
		}
	}

	if err := patch.Validate(time.Now()); err != nil {
		return nil, err
	}
	if patch.AssigneeID != nil {
		if _, err := s.requireUser(ctx, *patch.AssigneeID, "assignee"); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if err := domain.ValidateTransition(task.Status, *patch.Status); err != nil {
			return nil, err
		}
	}

	updated, err := s.tasks.Update(ctx, taskID, patch, task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	slog.Info("task updated",
		"task_id", taskID,
		"fields", patch.Fields(),
	)

	return updated, nil
}

// UpdateTaskStatus moves a task through the workflow. Permission uses
// the relaxed rule: creator, assignee, or admin. The comment is written
// to the audit log only; it is not stored on the task.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID string, newStatus domain.TaskStatus, actor domain.Actor, comment string) (*domain.Task, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := CanChangeStatus(*task, actor); err != nil {
		slog.Warn("status change denied",
			"task_id", taskID,
			"actor_id", actor.ID,
			"requested_status", newStatus,
		)
		return nil, err
	}

	if err := domain.ValidateTransition(task.Status, newStatus); err != nil {
		slog.Warn("illegal status transition",
			"task_id", taskID,
			"actor_id", actor.ID,
			"current_status", task.Status,
			"requested_status", newStatus,
		)
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, taskID, domain.TaskPatch{Status: &newStatus}, task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	slog.Info("task status changed",
		"task_id", taskID,
		"actor_id", actor.ID,
		"old_status", task.Status,
		"new_status", newStatus,
		"comment", comment,
	)

	return updated, nil
}

// AssignTask hands the task to the given user. Assigning a task to its
// current assignee is an idempotent no-op: no write is issued and the
// stored task is returned unchanged.
func (s *TaskService) AssignTask(ctx context.Context, taskID, assigneeID string, notify bool) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireUser(ctx, assigneeID, "assignee"); err != nil {
		return nil, err
	}

	if task.IsAssignedTo(assigneeID) {
		slog.Warn("task already assigned",
			"task_id", taskID,
			"assignee_id", assigneeID,
		)
		return task, nil
	}

	updated, err := s.tasks.Update(ctx, taskID, domain.TaskPatch{AssigneeID: &assigneeID}, task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	slog.Info("task assigned",
		"task_id", taskID,
		"assignee_id", assigneeID,
	)

	if notify {
		s.notifyAssignment(ctx, *updated, assigneeID)
	}

	return updated, nil
}

// DeleteTask removes a task permanently. Only the creator or an admin
// may delete; assignees may not.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string, actor domain.Actor) (bool, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return false, err
	}

	if err := CanDeleteTask(*task, actor); err != nil {
		slog.Warn("task delete denied",
			"task_id", taskID,
			"actor_id", actor.ID,
		)
		return false, err
	}

	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	slog.Info("task deleted",
		"task_id", taskID,
		"actor_id", actor.ID,
	)

	return deleted, nil
}

// notifyAssignment dispatches an assignment notice without blocking the
// caller. The dispatch context is detached from the request so an early
// response does not cancel delivery; failures are logged and swallowed.
func (s *TaskService) notifyAssignment(ctx context.Context, task domain.Task, assigneeID string) {
	if s.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := s.notifier.TaskAssigned(notifyCtx, task, assigneeID); err != nil {
			slog.Error("assignment notification failed",
				"task_id", task.ID,
				"assignee_id", assigneeID,
				"error", err,
			)
		}
	}()
}
