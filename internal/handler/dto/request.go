package dto

import (
	"time"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssigneeID     *string    `json:"assignee_id,omitempty"`
	ProjectID      string     `json:"project_id"`
	Tags           []string   `json:"tags,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
}

// ToProps converts the request into task creation props for the given
// creator. Status and priority inputs are case-insensitive.
func (r CreateTaskRequest) ToProps(createdBy string) (domain.CreateTaskProps, error) {
	props := domain.CreateTaskProps{
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        r.DueDate,
		AssigneeID:     r.AssigneeID,
		ProjectID:      r.ProjectID,
		CreatedBy:      createdBy,
		Tags:           r.Tags,
		EstimatedHours: r.EstimatedHours,
	}
	if r.Status != "" {
		status, err := domain.ParseTaskStatus(r.Status)
		if err != nil {
			return domain.CreateTaskProps{}, err
		}
		props.Status = status
	}
	if r.Priority != "" {
		priority, err := domain.ParseTaskPriority(r.Priority)
		if err != nil {
			return domain.CreateTaskProps{}, err
		}
		props.Priority = priority
	}
	return props, nil
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssigneeID     *string    `json:"assignee_id,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
}

// ToPatch converts the request into a task patch.
func (r UpdateTaskRequest) ToPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        r.DueDate,
		AssigneeID:     r.AssigneeID,
		Tags:           r.Tags,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
	}
	if r.Status != nil {
		status, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Status = &status
	}
	if r.Priority != nil {
		priority, err := domain.ParseTaskPriority(*r.Priority)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Priority = &priority
	}
	return patch, nil
}

// UpdateStatusRequest represents the request body for PATCH /tasks/{id}/status.
// Comment is audited in the log only, never stored on the task.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/{id}/assign.
type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
	Notify     *bool  `json:"notify,omitempty"`
}
