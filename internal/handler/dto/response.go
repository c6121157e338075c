package dto

import (
	"time"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	AssigneeID     *string    `json:"assignee_id"`
	ProjectID      string     `json:"project_id"`
	CreatedBy      string     `json:"created_by"`
	Tags           []string   `json:"tags"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToTaskResponse converts a domain task to its response form.
func ToTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		DueDate:        task.DueDate,
		AssigneeID:     task.AssigneeID,
		ProjectID:      task.ProjectID,
		CreatedBy:      task.CreatedBy,
		Tags:           task.Tags,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain tasks.
func ToTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskResponse(*task)
	}
	return out
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// DeleteTaskResponse represents the response for DELETE /tasks/{id}.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}
