package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/handler/dto"
	"github.com/mtlprog/taskdeck/internal/middleware"
	"github.com/mtlprog/taskdeck/internal/service"
)

// handleCreateTask creates a new task owned by the authenticated actor.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	props, err := req.ToProps(actor.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	task, err := h.taskService.CreateTask(ctx, props)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(*task))
}

// handleGetTask retrieves a single task.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(*task))
}

// handleListTasks lists tasks with optional filters and pagination.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, ok := parseTaskFilter(w, r)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.ListTasks(ctx, filter)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  dto.ToTaskResponses(tasks),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// handleUpdateTask applies a partial update on behalf of the actor.
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, patch, &actor)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(*task))
}

// handleUpdateTaskStatus moves a task through the workflow.
func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	newStatus, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	task, err := h.taskService.UpdateTaskStatus(ctx, taskID, newStatus, actor, req.Comment)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(*task))
}

// handleAssignTask assigns the task to a user.
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.AssigneeID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee_id is required")
		return
	}

	notify := true
	if req.Notify != nil {
		notify = *req.Notify
	}

	task, err := h.taskService.AssignTask(ctx, taskID, req.AssigneeID, notify)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(*task))
}

// handleDeleteTask removes a task permanently.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteTask(ctx, taskID, actor)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.DeleteTaskResponse{Deleted: deleted})
}

// handleProjectTasks lists all tasks of a project.
func (h *Handler) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID := r.PathValue("id")
	if projectID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project id is required")
		return
	}

	tasks, err := h.taskService.ProjectTasks(ctx, projectID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks: dto.ToTaskResponses(tasks),
		Total: len(tasks),
		Limit: len(tasks),
	})
}

// handleAssigneeTasks lists all tasks assigned to a user.
func (h *Handler) handleAssigneeTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "user id is required")
		return
	}

	tasks, err := h.taskService.AssigneeTasks(ctx, userID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks: dto.ToTaskResponses(tasks),
		Total: len(tasks),
		Limit: len(tasks),
	})
}

// parseTaskFilter reads list query parameters. Returns ok=false after
// writing an error response for malformed enum values.
func parseTaskFilter(w http.ResponseWriter, r *http.Request) (service.TaskFilter, bool) {
	var filter service.TaskFilter
	query := r.URL.Query()

	if v := query.Get("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := query.Get("assignee_id"); v != "" {
		filter.AssigneeID = &v
	}
	if v := query.Get("created_by"); v != "" {
		filter.CreatedBy = &v
	}
	if v := query.Get("status"); v != "" {
		status, err := domain.ParseTaskStatus(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return service.TaskFilter{}, false
		}
		filter.Status = &status
	}
	if v := query.Get("priority"); v != "" {
		priority, err := domain.ParseTaskPriority(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return service.TaskFilter{}, false
		}
		filter.Priority = &priority
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return service.TaskFilter{}, false
		}
		filter.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be a non-negative integer")
			return service.TaskFilter{}, false
		}
		filter.Offset = offset
	}

	return filter, true
}
