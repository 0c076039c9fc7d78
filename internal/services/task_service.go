package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus   = errors.New("unrecognized task status")
	ErrInvalidTaskPriority = errors.New("unrecognized task priority")
	ErrTaskNotFound        = errors.New("task not found")
)

// TaskService provides business logic for tasks. Authorization runs against
// the parent project; every mutation recomputes the project's progress in
// the same transaction as the task write.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents parameters to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
}

// Create adds a task to a project. Requires an editor-or-better membership.
func (s *TaskService) Create(user *models.User, projectID uint64, input CreateTaskInput) (*models.Task, error) {
	project, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesEditors, true)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTaskTitle
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// List returns the project's live tasks for a reader.
func (s *TaskService) List(user *models.User, projectID uint64) ([]models.Task, error) {
	if _, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesReaders, true); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task for a reader.
func (s *TaskService) Get(user *models.User, projectID, taskID uint64) (*models.Task, error) {
	if _, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesReaders, true); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput represents updatable task fields.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
}

// Update modifies a task. Requires an editor-or-better membership.
func (s *TaskService) Update(user *models.User, projectID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if _, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesEditors, true); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrInvalidTaskTitle
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// SoftDelete flags a task as deleted. Requires owner.
func (s *TaskService) SoftDelete(user *models.User, projectID, taskID uint64) error {
	if _, _, err := CheckProjectAccess(s.projectRepo, user, projectID, RolesOwner, true); err != nil {
		return err
	}

	if _, err := s.taskRepo.FindByID(taskID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.SoftDelete(taskID, projectID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
