package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindInOrganization finds a project scoped to its organization, with its creator
func (r *GormProjectRepository) FindInOrganization(ctx context.Context, id, organizationID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindWithTasks finds a project scoped to its organization with its tasks,
// their assignees and creators
func (r *GormProjectRepository) FindWithTasks(ctx context.Context, id, organizationID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Tasks", database.NewestFirst).
		Preload("Tasks.Assignee").
		Preload("Tasks.Creator").
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves the projects of an organization with their creators
func (r *GormProjectRepository) List(ctx context.Context, organizationID string, filter ProjectFilter) ([]models.Project, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Where("organization_id = ?", organizationID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var projects []models.Project
	if err := query.Scopes(database.NewestFirst).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CountTasks counts tasks per project. Projects without tasks are absent from the map.
func (r *GormProjectRepository) CountTasks(ctx context.Context, projectIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProjectID string
		Count     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("project_id, COUNT(*) AS count").
		Where("project_id IN ?", projectIDs).
		Group("project_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ProjectID] = row.Count
	}
	return counts, nil
}

// Update applies column updates to a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	// Preloaded associations would otherwise write their keys back over updates.
	return r.db.WithContext(ctx).Model(project).Omit(clause.Associations).Updates(updates).Error
}

// Delete deletes a project and all of its tasks in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}
