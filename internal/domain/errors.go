package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskModified      = errors.New("task was modified concurrently")

	// Permission errors
	ErrPermissionDenied = errors.New("permission denied")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidToken = errors.New("invalid authentication token")

	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidRole     = errors.New("invalid user role")
)
