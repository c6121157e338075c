package service

import (
	"context"
	"time"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// TaskFilter narrows task listings. Nil fields are ignored.
type TaskFilter struct {
	ProjectID  *string
	AssigneeID *string
	CreatedBy  *string
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	Limit      int
	Offset     int
}

// TaskRepository is the persistence boundary for tasks. Implementations
// return domain.ErrTaskNotFound when no record matches an id, and
// domain.ErrTaskModified when a conditional update loses a write race.
type TaskRepository interface {
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	ListByCreator(ctx context.Context, userID string) ([]*domain.Task, error)
	ListByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)
	ListByPriority(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error)
	Create(ctx context.Context, task domain.Task) (*domain.Task, error)

	// Update applies the patch only if the stored row still carries
	// expectedUpdatedAt, so a concurrent writer cannot be silently
	// overwritten.
	Update(ctx context.Context, taskID string, patch domain.TaskPatch, expectedUpdatedAt time.Time) (*domain.Task, error)

	Delete(ctx context.Context, taskID string) (bool, error)
}

// UserRepository is the persistence boundary for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
}

// Notifier delivers task assignment notices. Calls are best-effort:
// the service logs failures and never propagates them.
type Notifier interface {
	TaskAssigned(ctx context.Context, task domain.Task, assigneeID string) error
}
