package domain

import (
	"fmt"
	"strings"
)

// statusTransitions defines the legal workflow edges. A status never
// appears in its own adjacency list: self-transitions are illegal.
var statusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress, TaskStatusReview},
	TaskStatusInProgress: {TaskStatusReview, TaskStatusTodo},
	TaskStatusReview:     {TaskStatusDone, TaskStatusInProgress},
	TaskStatusDone:       {TaskStatusTodo, TaskStatusInProgress},
}

// LegalNextStatuses returns the statuses reachable from the given one.
func LegalNextStatuses(from TaskStatus) []TaskStatus {
	return append([]TaskStatus(nil), statusTransitions[from]...)
}

// ValidateTransition checks that requested is reachable from current.
// The returned error enumerates the legal next states so callers can
// surface them to the client. Pure function, no side effects.
func ValidateTransition(current, requested TaskStatus) error {
	if !current.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, current)
	}
	if !requested.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, requested)
	}

	legal := statusTransitions[current]
	for _, status := range legal {
		if status == requested {
			return nil
		}
	}

	names := make([]string, len(legal))
	for i, status := range legal {
		names[i] = string(status)
	}
	return fmt.Errorf("%w: cannot move %s -> %s, legal transitions from %s are: %s",
		ErrInvalidTransition, current, requested, current, strings.Join(names, ", "))
}
