package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/service"
)

// DefaultListLimit caps unpaginated listings.
const DefaultListLimit = 50

// filterConditions translates a TaskFilter into squirrel predicates,
// shared by the page query and the count query.
func filterConditions(qb sq.SelectBuilder, filter service.TaskFilter) sq.SelectBuilder {
	if filter.ProjectID != nil {
		qb = qb.Where(sq.Eq{"project_id": *filter.ProjectID})
	}
	if filter.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *filter.AssigneeID})
	}
	if filter.CreatedBy != nil {
		qb = qb.Where(sq.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Priority != nil {
		qb = qb.Where(sq.Eq{"priority": *filter.Priority})
	}
	return qb
}

// List retrieves tasks matching the filter plus the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filter service.TaskFilter) ([]*domain.Task, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	qb := filterConditions(psql.Select(taskColumns...).From("tasks"), filter).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filterConditions(psql.Select("COUNT(*)").From("tasks"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
