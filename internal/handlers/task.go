package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectpulse/project-management-api/internal/apperrors"
	"github.com/projectpulse/project-management-api/internal/dto"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Create adds a task to a project.
func (h *TaskHandler) Create(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(user, projectID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// List returns the project's live tasks.
func (h *TaskHandler) List(c *gin.Context) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(user, projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// Get returns a single task.
func (h *TaskHandler) Get(c *gin.Context) {
	user, projectID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(user, projectID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Update modifies a task.
func (h *TaskHandler) Update(c *gin.Context) {
	user, projectID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Update(user, projectID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete soft-deletes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	user, projectID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.taskService.SoftDelete(user, projectID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskRequest extracts the principal plus the :id and :taskId parameters.
func taskRequest(c *gin.Context) (*models.User, uint64, uint64, bool) {
	user, projectID, ok := projectRequest(c)
	if !ok {
		return nil, 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid task ID")
		return nil, 0, 0, false
	}

	return user, projectID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apperrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectAccessDenied):
		apperrors.Forbidden(c, "You do not have permission for this project")
	case errors.Is(err, services.ErrInvalidTaskTitle),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		apperrors.BadRequest(c, err.Error())
	default:
		apperrors.InternalError(c, "")
	}
}
