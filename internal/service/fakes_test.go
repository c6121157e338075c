package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/service"
)

// fakeTaskRepo is an in-memory TaskRepository with the same conditional
// update semantics as the Postgres implementation.
type fakeTaskRepo struct {
	mu          sync.Mutex
	tasks       map[string]domain.Task
	updateCalls int

	// touchAfterGet simulates a concurrent writer: every read bumps the
	// stored updated_at right after returning, so the next conditional
	// update loses the race.
	touchAfterGet bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]domain.Task)}
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if r.touchAfterGet {
		stale := task
		touched := task
		touched.UpdatedAt = touched.UpdatedAt.Add(time.Millisecond)
		r.tasks[taskID] = touched
		return &stale, nil
	}
	return &task, nil
}

func (r *fakeTaskRepo) List(ctx context.Context, filter service.TaskFilter) ([]*domain.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Task
	for _, task := range r.tasks {
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AssigneeID != nil && !task.IsAssignedTo(*filter.AssigneeID) {
			continue
		}
		if filter.CreatedBy != nil && task.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		copied := task
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (r *fakeTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{ProjectID: &projectID})
	return tasks, err
}

func (r *fakeTaskRepo) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{AssigneeID: &userID})
	return tasks, err
}

func (r *fakeTaskRepo) ListByCreator(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{CreatedBy: &userID})
	return tasks, err
}

func (r *fakeTaskRepo) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{Status: &status})
	return tasks, err
}

func (r *fakeTaskRepo) ListByPriority(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{Priority: &priority})
	return tasks, err
}

func (r *fakeTaskRepo) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task
	return &task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, taskID string, patch domain.TaskPatch, expectedUpdatedAt time.Time) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskModified, taskID)
	}

	updated := stored.Update(patch)
	r.tasks[taskID] = updated
	r.updateCalls++
	return &updated, nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, taskID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tasks[taskID]
	delete(r.tasks, taskID)
	return ok, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailTaken, user.Email)
	}
	r.users[user.ID] = user
	return &user, nil
}

// notice records a single notification dispatch.
type notice struct {
	taskID     string
	assigneeID string
}

// fakeNotifier signals each dispatch on a channel so tests can wait for
// the asynchronous delivery.
type fakeNotifier struct {
	calls chan notice
	err   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan notice, 8)}
}

func (n *fakeNotifier) TaskAssigned(ctx context.Context, task domain.Task, assigneeID string) error {
	n.calls <- notice{taskID: task.ID, assigneeID: assigneeID}
	return n.err
}
