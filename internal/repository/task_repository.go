package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindInProject finds a task by ID, requiring its project to match both
// projectID and organizationID
func (r *GormTaskRepository) FindInProject(ctx context.Context, id, projectID, organizationID string) (*models.Task, error) {
	ownedProject := r.db.Model(&models.Project{}).
		Select("id").
		Where("id = ? AND organization_id = ?", projectID, organizationID)

	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		Where("id = ? AND project_id IN (?)", id, ownedProject).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves the tasks of a project with their assignees and creators
func (r *GormTaskRepository) List(ctx context.Context, projectID string, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Where("project_id = ?", projectID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var tasks []models.Task
	if err := query.Scopes(database.ByPriority).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies column updates to a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	// Preloaded associations would otherwise write their keys back over updates.
	return r.db.WithContext(ctx).Model(task).Omit(clause.Associations).Updates(updates).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}
