package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow stage of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts user input to a canonical TaskStatus.
// Input is case-insensitive ("in_progress" and "IN_PROGRESS" are equal).
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// ParseTaskPriority converts user input to a canonical TaskPriority.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	priority := TaskPriority(strings.ToUpper(strings.TrimSpace(raw)))
	if !priority.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return priority, nil
}

// Field constraints for task attributes.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMaxLen = 5000
	MaxTags           = 10
	TagMaxLen         = 50
)

// Task is an immutable work item. Mutations go through Update, which
// returns a fresh value and leaves the receiver untouched, so concurrent
// readers holding a Task never observe a half-applied change.
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	AssigneeID     *string
	ProjectID      string
	CreatedBy      string
	Tags           []string
	EstimatedHours float64
	ActualHours    float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAssignedTo checks if the task is assigned to the given user.
func (t Task) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsCreatedBy checks if the task was created by the given user.
func (t Task) IsCreatedBy(userID string) bool {
	return t.CreatedBy == userID
}

// CreateTaskProps holds the attributes accepted at task creation.
// Zero values for Status, Priority, Tags, and EstimatedHours receive
// the documented defaults.
type CreateTaskProps struct {
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	AssigneeID     *string
	ProjectID      string
	CreatedBy      string
	Tags           []string
	EstimatedHours float64
}

// NewTask constructs a task, applying defaults and validating field
// constraints. Creation is exempt from transition validation: any valid
// status may be set directly.
func NewTask(props CreateTaskProps) (Task, error) {
	if props.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if props.ProjectID == "" {
		return Task{}, fmt.Errorf("%w: project id is required", ErrValidation)
	}
	if props.CreatedBy == "" {
		return Task{}, fmt.Errorf("%w: creator id is required", ErrValidation)
	}
	if err := validateTitle(props.Title); err != nil {
		return Task{}, err
	}
	if err := validateDescription(props.Description); err != nil {
		return Task{}, err
	}
	if err := validateTags(props.Tags); err != nil {
		return Task{}, err
	}

	now := time.Now()

	if props.DueDate != nil && !props.DueDate.After(now) {
		return Task{}, fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}

	status := props.Status
	if status == "" {
		status = TaskStatusTodo
	} else if !status.IsValid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	priority := props.Priority
	if priority == "" {
		priority = TaskPriorityMedium
	} else if !priority.IsValid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	estimated := props.EstimatedHours
	if estimated == 0 {
		estimated = 1
	}
	if estimated < 0 {
		return Task{}, fmt.Errorf("%w: estimated hours must be positive", ErrValidation)
	}

	tags := props.Tags
	if tags == nil {
		tags = []string{}
	}

	return Task{
		ID:             uuid.NewString(),
		Title:          props.Title,
		Description:    props.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        props.DueDate,
		AssigneeID:     props.AssigneeID,
		ProjectID:      props.ProjectID,
		CreatedBy:      props.CreatedBy,
		Tags:           tags,
		EstimatedHours: estimated,
		ActualHours:    0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// TaskPatch is a partial overlay for Task. Nil fields are left unchanged.
type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *TaskStatus
	Priority       *TaskPriority
	DueDate        *time.Time
	AssigneeID     *string
	Tags           []string
	EstimatedHours *float64
	ActualHours    *float64
}

// Canonical patch field names, as exchanged with clients and evaluated
// by the permission rules.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldStatus         = "status"
	FieldPriority       = "priority"
	FieldDueDate        = "dueDate"
	FieldAssigneeID     = "assigneeId"
	FieldTags           = "tags"
	FieldEstimatedHours = "estimatedHours"
	FieldActualHours    = "actualHours"
)

// Fields returns the names of the fields present in the patch.
func (p TaskPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if p.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if p.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if p.Priority != nil {
		fields = append(fields, FieldPriority)
	}
	if p.DueDate != nil {
		fields = append(fields, FieldDueDate)
	}
	if p.AssigneeID != nil {
		fields = append(fields, FieldAssigneeID)
	}
	if p.Tags != nil {
		fields = append(fields, FieldTags)
	}
	if p.EstimatedHours != nil {
		fields = append(fields, FieldEstimatedHours)
	}
	if p.ActualHours != nil {
		fields = append(fields, FieldActualHours)
	}
	return fields
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Validate checks field-level constraints for the fields present in the
// patch. The constraints are the same ones enforced at creation.
func (p TaskPatch) Validate(now time.Time) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	if p.DueDate != nil && !p.DueDate.After(now) {
		return fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}
	if p.Tags != nil {
		if err := validateTags(p.Tags); err != nil {
			return err
		}
	}
	if p.EstimatedHours != nil && *p.EstimatedHours <= 0 {
		return fmt.Errorf("%w: estimated hours must be positive", ErrValidation)
	}
	if p.ActualHours != nil && *p.ActualHours < 0 {
		return fmt.Errorf("%w: actual hours must not be negative", ErrValidation)
	}
	return nil
}

// Update overlays the patch on the task and returns the result as a new
// value with a refreshed UpdatedAt. It applies no transition or
// permission rules; those belong to the orchestrators.
func (t Task) Update(patch TaskPatch) Task {
	next := t
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		next.DueDate = &due
	}
	if patch.AssigneeID != nil {
		assignee := *patch.AssigneeID
		next.AssigneeID = &assignee
	}
	if patch.Tags != nil {
		next.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.EstimatedHours != nil {
		next.EstimatedHours = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		next.ActualHours = *patch.ActualHours
	}
	next.UpdatedAt = time.Now()
	return next
}

// ChangeStatus returns a new task with only the status changed.
func (t Task) ChangeStatus(status TaskStatus) Task {
	return t.Update(TaskPatch{Status: &status})
}

// AssignTo returns a new task with only the assignee changed.
func (t Task) AssignTo(userID string) Task {
	return t.Update(TaskPatch{AssigneeID: &userID})
}

func validateTitle(title string) error {
	if len(title) < TitleMinLen || len(title) > TitleMaxLen {
		return fmt.Errorf("%w: title must be between %d and %d characters", ErrValidation, TitleMinLen, TitleMaxLen)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > DescriptionMaxLen {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrValidation, DescriptionMaxLen)
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return fmt.Errorf("%w: at most %d tags are allowed", ErrValidation, MaxTags)
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > TagMaxLen {
			return fmt.Errorf("%w: each tag must be between 1 and %d characters", ErrValidation, TagMaxLen)
		}
	}
	return nil
}
