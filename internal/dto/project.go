package dto

import (
	"time"

	"github.com/yukikurage/taskflow/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    *string              `json:"description"`
	Status         models.ProjectStatus `json:"status"`
	OrganizationID string               `json:"organizationId"`
	CreatorID      string               `json:"creatorId"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Creator        *UserSummaryDTO      `json:"creator,omitempty"`
}

// ProjectWithCountDTO is a project with the number of its tasks
type ProjectWithCountDTO struct {
	ProjectDTO
	TaskCount int64 `json:"taskCount"`
}

// ProjectDetailDTO is a project with its tasks, newest first
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Status:         project.Status,
		OrganizationID: project.OrganizationID,
		CreatorID:      project.CreatorID,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
		Creator:        toUserSummaryPtr(&project.Creator),
	}
}

func ToProjectWithCountDTO(project models.Project, taskCount int64) ProjectWithCountDTO {
	return ProjectWithCountDTO{ProjectDTO: ToProjectDTO(project), TaskCount: taskCount}
}

func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      ToTaskDTOs(project.Tasks),
	}
}
