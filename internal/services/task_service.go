package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidAssignee = errors.New("assignee must be a member of the organization")
)

// TaskService handles task related business logic. A task is reachable only
// through its project, and the project only through its organization.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
	}
}

// TaskScope locates a project within an organization.
type TaskScope struct {
	OrganizationID string
	ProjectID      string
}

// CreateTaskInput contains the data required to create a task.
type CreateTaskInput struct {
	TaskScope
	CreatorID   string
	Title       string
	Description *string
	Priority    *models.TaskPriority
	AssigneeID  *string
	DueDate     *time.Time
}

// CreateTask creates a TODO task in the project.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if err := s.verifyProject(ctx, input.TaskScope); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if err := s.verifyAssignee(ctx, input.OrganizationID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatorID:   input.CreatorID,
		DueDate:     input.DueDate,
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(ctx, input.TaskScope, task.ID)
}

// ListTasks returns the project's tasks, highest priority first and newest first within a priority.
func (s *TaskService) ListTasks(ctx context.Context, scope TaskScope, filter repository.TaskFilter) ([]models.Task, error) {
	if err := s.verifyProject(ctx, scope); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, scope.ProjectID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its assignee, creator and project.
func (s *TaskService) GetTask(ctx context.Context, scope TaskScope, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindInProject(ctx, taskID, scope.ProjectID, scope.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds the fields to change; nil fields are left as is.
// ClearAssignee and ClearDueDate unset the corresponding field.
type UpdateTaskInput struct {
	TaskScope
	TaskID        string
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *string
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// UpdateTask applies the given changes to a task of the project.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, input.TaskScope, input.TaskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	switch {
	case input.ClearAssignee:
		updates["assignee_id"] = nil
	case input.AssigneeID != nil:
		if err := s.verifyAssignee(ctx, input.OrganizationID, *input.AssigneeID); err != nil {
			return nil, err
		}
		updates["assignee_id"] = *input.AssigneeID
	}
	switch {
	case input.ClearDueDate:
		updates["due_date"] = nil
	case input.DueDate != nil:
		updates["due_date"] = *input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task, updates); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, input.TaskScope, task.ID)
}

// DeleteTask deletes a task of the project.
func (s *TaskService) DeleteTask(ctx context.Context, scope TaskScope, taskID string) error {
	task, err := s.GetTask(ctx, scope, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) verifyProject(ctx context.Context, scope TaskScope) error {
	if _, err := s.projectRepo.FindInOrganization(ctx, scope.ProjectID, scope.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

func (s *TaskService) verifyAssignee(ctx context.Context, organizationID, userID string) error {
	if _, err := s.orgRepo.FindMember(ctx, organizationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to check assignee membership: %w", err)
	}
	return nil
}
