package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/service"
)

// taskColumns is the single authoritative column list for task queries;
// read and write paths both derive from it.
var taskColumns = []string{
	"id", "title", "description", "status", "priority", "due_date",
	"assignee_id", "project_id", "created_by", "tags",
	"estimated_hours", "actual_hours", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.AssigneeID,
		&task.ProjectID,
		&task.CreatedBy,
		&task.Tags,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new task. Timestamps are assigned by the database so
// that stored and returned values agree to the column's precision.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	query, args, err := psql.
		Insert("tasks").
		Columns(
			"id", "title", "description", "status", "priority", "due_date",
			"assignee_id", "project_id", "created_by", "tags",
			"estimated_hours", "actual_hours",
		).
		Values(
			task.ID,
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.DueDate,
			task.AssigneeID,
			task.ProjectID,
			task.CreatedBy,
			task.Tags,
			task.EstimatedHours,
			task.ActualHours,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return &task, nil
}

// Update applies a partial update conditional on the previously-read
// updated_at. When the row changed in between, no write happens and
// domain.ErrTaskModified is returned so the caller can re-read and
// retry.
func (r *TaskRepository) Update(ctx context.Context, taskID string, patch domain.TaskPatch, expectedUpdatedAt time.Time) (*domain.Task, error) {
	qb := psql.Update("tasks").Set("updated_at", sq.Expr("NOW()"))

	if patch.Title != nil {
		qb = qb.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		qb = qb.Set("description", *patch.Description)
	}
	if patch.Status != nil {
		qb = qb.Set("status", *patch.Status)
	}
	if patch.Priority != nil {
		qb = qb.Set("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		qb = qb.Set("due_date", *patch.DueDate)
	}
	if patch.AssigneeID != nil {
		qb = qb.Set("assignee_id", *patch.AssigneeID)
	}
	if patch.Tags != nil {
		qb = qb.Set("tags", patch.Tags)
	}
	if patch.EstimatedHours != nil {
		qb = qb.Set("estimated_hours", *patch.EstimatedHours)
	}
	if patch.ActualHours != nil {
		qb = qb.Set("actual_hours", *patch.ActualHours)
	}

	query, args, err := qb.
		Where(sq.Eq{"id": taskID}).
		Where("updated_at = ?", expectedUpdatedAt).
		Suffix("RETURNING " + joinColumns(taskColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Update query for task %s: %w", taskID, err)
	}

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, fmt.Errorf("update task %s: %w", taskID, err)
	}

	// No row matched: either the task is gone or someone else wrote
	// between our read and this update.
	if _, getErr := r.GetByID(ctx, taskID); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: task %s", domain.ErrTaskModified, taskID)
}

// Delete removes a task. Returns true if a record was removed.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) (bool, error) {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByProject retrieves all tasks of a project.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{ProjectID: &projectID})
	return tasks, err
}

// ListByAssignee retrieves all tasks assigned to a user.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{AssigneeID: &userID})
	return tasks, err
}

// ListByCreator retrieves all tasks created by a user.
func (r *TaskRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{CreatedBy: &userID})
	return tasks, err
}

// ListByStatus retrieves all tasks in the given status.
func (r *TaskRepository) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{Status: &status})
	return tasks, err
}

// ListByPriority retrieves all tasks with the given priority.
func (r *TaskRepository) ListByPriority(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error) {
	tasks, _, err := r.List(ctx, service.TaskFilter{Priority: &priority})
	return tasks, err
}

func joinColumns(columns []string) string {
	out := columns[0]
	for _, col := range columns[1:] {
		out += ", " + col
	}
	return out
}
