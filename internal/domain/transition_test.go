package domain_test

import (
	"testing"

	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []domain.TaskStatus{
	domain.TaskStatusTodo,
	domain.TaskStatusInProgress,
	domain.TaskStatusReview,
	domain.TaskStatusDone,
}

// legalEdges mirrors the workflow table exhaustively; every (from, to)
// pair outside it must be rejected.
var legalEdges = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskStatusTodo:       {domain.TaskStatusInProgress, domain.TaskStatusReview},
	domain.TaskStatusInProgress: {domain.TaskStatusReview, domain.TaskStatusTodo},
	domain.TaskStatusReview:     {domain.TaskStatusDone, domain.TaskStatusInProgress},
	domain.TaskStatusDone:       {domain.TaskStatusTodo, domain.TaskStatusInProgress},
}

func isLegal(from, to domain.TaskStatus) bool {
	for _, status := range legalEdges[from] {
		if status == to {
			return true
		}
	}
	return false
}

func TestValidateTransition_FullTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := domain.ValidateTransition(from, to)
			if isLegal(from, to) {
				assert.NoError(t, err, "%s -> %s should be legal", from, to)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s should be illegal", from, to)
			}
		}
	}
}

func TestValidateTransition_SelfTransitionRejected(t *testing.T) {
	for _, status := range allStatuses {
		err := domain.ValidateTransition(status, status)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s must be rejected", status, status)
	}
}

func TestValidateTransition_ErrorListsLegalStates(t *testing.T) {
	err := domain.ValidateTransition(domain.TaskStatusTodo, domain.TaskStatusDone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IN_PROGRESS")
	assert.Contains(t, err.Error(), "REVIEW")
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := domain.ValidateTransition("ARCHIVED", domain.TaskStatusTodo)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	err = domain.ValidateTransition(domain.TaskStatusTodo, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestLegalNextStatuses_ReturnsCopy(t *testing.T) {
	next := domain.LegalNextStatuses(domain.TaskStatusTodo)
	require.Len(t, next, 2)

	next[0] = domain.TaskStatusDone
	again := domain.LegalNextStatuses(domain.TaskStatusTodo)
	assert.Equal(t, domain.TaskStatusInProgress, again[0], "mutating the result must not affect the table")
}
