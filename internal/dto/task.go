package dto

import (
	"time"

	"github.com/yukikurage/taskflow/internal/models"
)

// ProjectRefDTO identifies the project a task belongs to
type ProjectRefDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	ProjectID   string              `json:"projectId"`
	AssigneeID  *string             `json:"assigneeId"`
	CreatorID   string              `json:"creatorId"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Assignee    *UserSummaryDTO     `json:"assignee"`
	Creator     *UserSummaryDTO     `json:"creator,omitempty"`
	Project     *ProjectRefDTO      `json:"project,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatorID:   task.CreatorID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignee:    toUserSummaryPtr(task.Assignee),
		Creator:     toUserSummaryPtr(&task.Creator),
	}

	// Include project if preloaded
	if task.Project.ID != "" {
		dto.Project = &ProjectRefDTO{
			ID:             task.Project.ID,
			Name:           task.Project.Name,
			OrganizationID: task.Project.OrganizationID,
		}
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
