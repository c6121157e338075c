package service

import (
	"fmt"
	"strings"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// Permission rules for task operations. All checks are pure functions
// evaluated against the task loaded at the start of an operation. An
// actor with an empty role is treated as non-admin, never rejected for
// the missing role alone.

// isStatusOnly reports whether the changed-field set is exactly {status}.
func isStatusOnly(fields []string) bool {
	return len(fields) == 1 && fields[0] == domain.FieldStatus
}

// CanUpdateTask evaluates the general update permission over the set of
// fields being changed. Precedence order, first match wins:
//
//  1. admin: always allowed
//  2. creator: always allowed
//  3. assignee: allowed only for a status-only change
//  4. otherwise denied
//
// Assignees get a narrow right to move their own work through the
// workflow without gaining edit rights over the rest of the task.
func CanUpdateTask(task domain.Task, actor domain.Actor, fields []string) error {
	if actor.IsAdmin() {
		return nil
	}
	if task.IsCreatedBy(actor.ID) {
		return nil
	}
	if task.IsAssignedTo(actor.ID) && isStatusOnly(fields) {
		return nil
	}
	return fmt.Errorf("%w: user %s may not update [%s] of task %s",
		domain.ErrPermissionDenied, actor.ID, strings.Join(fields, ", "), task.ID)
}

// CanChangeStatus evaluates the relaxed permission used by the dedicated
// status-change operation: creator, assignee, or admin. Changing only the
// status carries no data-integrity risk beyond the transition table, so
// anyone with a relationship to the task may move it.
func CanChangeStatus(task domain.Task, actor domain.Actor) error {
	if actor.IsAdmin() || task.IsCreatedBy(actor.ID) || task.IsAssignedTo(actor.ID) {
		return nil
	}
	return fmt.Errorf("%w: user %s may not change the status of task %s",
		domain.ErrPermissionDenied, actor.ID, task.ID)
}

// CanDeleteTask evaluates delete permission: admin or creator only.
// Assignees may never delete.
func CanDeleteTask(task domain.Task, actor domain.Actor) error {
	if actor.IsAdmin() || task.IsCreatedBy(actor.ID) {
		return nil
	}
	return fmt.Errorf("%w: user %s may not delete task %s",
		domain.ErrPermissionDenied, actor.ID, task.ID)
}
