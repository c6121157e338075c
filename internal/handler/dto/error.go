package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/taskdeck/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", message

	// Permission
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message

	// Conflict
	case errors.Is(err, domain.ErrTaskModified):
		return http.StatusConflict, "TASK_MODIFIED", message
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_TAKEN", message

	// Validation (illegal transitions are client errors, not conflicts)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Authentication
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Default: internal server error, message suppressed from the client
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
