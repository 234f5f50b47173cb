package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project related business logic. Every lookup is
// scoped to the caller's organization, so a project of another tenant is
// reported as not found.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// ProjectWithCount is a project with its creator and number of tasks.
type ProjectWithCount struct {
	Project   models.Project
	TaskCount int64
}

// CreateProjectInput contains the data required to create a project.
type CreateProjectInput struct {
	OrganizationID string
	CreatorID      string
	Name           string
	Description    *string
}

// CreateProject creates an ACTIVE project in the organization.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*ProjectWithCount, error) {
	project := &models.Project{
		Name:           input.Name,
		Description:    input.Description,
		Status:         models.ProjectStatusActive,
		OrganizationID: input.OrganizationID,
		CreatorID:      input.CreatorID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.withCount(ctx, project.ID, input.OrganizationID)
}

// ListProjects returns the organization's projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, organizationID string, filter repository.ProjectFilter) ([]ProjectWithCount, error) {
	projects, err := s.projectRepo.List(ctx, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	counts, err := s.projectRepo.CountTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	result := make([]ProjectWithCount, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithCount{Project: p, TaskCount: counts[p.ID]}
	}
	return result, nil
}

// GetProject returns a project with its tasks, newest first.
func (s *ProjectService) GetProject(ctx context.Context, organizationID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindWithTasks(ctx, projectID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput holds the fields to change; nil fields are left as is.
type UpdateProjectInput struct {
	OrganizationID string
	ProjectID      string
	Name           *string
	Description    *string
	Status         *models.ProjectStatus
}

// UpdateProject applies the given changes to a project of the organization.
func (s *ProjectService) UpdateProject(ctx context.Context, input UpdateProjectInput) (*ProjectWithCount, error) {
	project, err := s.findProject(ctx, input.OrganizationID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if err := s.projectRepo.Update(ctx, project, updates); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.withCount(ctx, project.ID, input.OrganizationID)
}

// DeleteProject deletes a project of the organization along with its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, organizationID, projectID string) error {
	project, err := s.findProject(ctx, organizationID, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// findProject verifies that the project belongs to the organization.
func (s *ProjectService) findProject(ctx context.Context, organizationID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindInOrganization(ctx, projectID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) withCount(ctx context.Context, projectID, organizationID string) (*ProjectWithCount, error) {
	project, err := s.findProject(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}

	counts, err := s.projectRepo.CountTasks(ctx, []string{project.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &ProjectWithCount{Project: *project, TaskCount: counts[project.ID]}, nil
}
