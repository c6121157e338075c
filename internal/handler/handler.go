package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mtlprog/taskdeck/internal/handler/dto"
	"github.com/mtlprog/taskdeck/internal/middleware"
	"github.com/mtlprog/taskdeck/internal/service"
)

// Pinger reports storage reachability for the health endpoint.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pinger         Pinger
	taskService    *service.TaskService
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance.
func New(taskService *service.TaskService, authMiddleware *middleware.AuthMiddleware, pinger Pinger) *Handler {
	return &Handler{
		pinger:         pinger,
		taskService:    taskService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes with authentication
	mux.Handle("POST /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("GET /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}/status", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateTaskStatus)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssignTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeleteTask)))
	mux.Handle("GET /api/v1/projects/{id}/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleProjectTasks)))
	mux.Handle("GET /api/v1/users/{id}/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssigneeTasks)))
}

// handleHealthz returns 200 OK if storage is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates the task ID path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already
// sent to the client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}
