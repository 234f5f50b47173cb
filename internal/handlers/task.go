package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/taskflow/internal/dto"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
	"github.com/yukikurage/taskflow/internal/services"
	"github.com/yukikurage/taskflow/internal/validation"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	Title       string               `json:"title" binding:"required,min=2" message:"Title must be at least 2 characters"`
	Description *string              `json:"description"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID  *string              `json:"assigneeId"`
	DueDate     *string              `json:"dueDate" binding:"omitempty,rfc3339"`
}

type updateTaskRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=2" message:"Title must be at least 2 characters"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID  *string              `json:"assigneeId"`
	DueDate     *string              `json:"dueDate" binding:"omitempty,rfc3339"`
}

type listTasksQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority   string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID string `form:"assigneeId"`
}

// scope returns the organization and project a task route is nested under.
func (h *TaskHandler) scope(c *gin.Context) (services.TaskScope, string, bool) {
	org, userID, ok := requireScope(c)
	if !ok {
		return services.TaskScope{}, "", false
	}
	return services.TaskScope{OrganizationID: org.ID, ProjectID: c.Param("projectId")}, userID, true
}

// CreateTask creates a new task in the project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	scope, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		TaskScope:   scope,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     parseDueDate(req.DueDate),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(dto.ToTaskDTO(*task), "Task created successfully"))
}

// ListTasks returns the project's tasks, most urgent first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	scope, _, ok := h.scope(c)
	if !ok {
		return
	}

	var query listTasksQuery
	if !validation.BindQuery(c, &query) {
		return
	}

	// Apply filters
	var filter repository.TaskFilter
	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		filter.Status = &status
	}
	if query.Priority != "" {
		priority := models.TaskPriority(query.Priority)
		filter.Priority = &priority
	}
	if query.AssigneeID != "" {
		filter.AssigneeID = &query.AssigneeID
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), scope, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToTaskDTOs(tasks), ""))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	scope, _, ok := h.scope(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), scope, c.Param("taskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToTaskDTO(*task), ""))
}

// UpdateTask updates an existing task. An explicit null for assigneeId or
// dueDate clears the field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	scope, _, ok := h.scope(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !validation.BindJSON(c, &req) {
		return
	}
	nulls := validation.NullFields(c)

	task, err := h.taskService.UpdateTask(c.Request.Context(), services.UpdateTaskInput{
		TaskScope:     scope,
		TaskID:        c.Param("taskId"),
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: nulls["assigneeId"],
		DueDate:       parseDueDate(req.DueDate),
		ClearDueDate:  nulls["dueDate"],
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToTaskDTO(*task), "Task updated successfully"))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	scope, _, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), scope, c.Param("taskId")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Task deleted successfully"))
}

// parseDueDate converts a date that already passed validation.
func parseDueDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, "Assignee must be a member of the organization")
	default:
		respondInternal(c, "task request failed", err)
	}
}
