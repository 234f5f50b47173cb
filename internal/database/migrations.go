package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes used by the listing queries.
// Single-column indexes are declared on the models.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing filters within a project and sorts by recency
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		{"tasks", "idx_tasks_project_priority", "project_id, priority"},
		{"tasks", "idx_tasks_project_created_at", "project_id, created_at"},

		// Project listing per organization
		{"projects", "idx_projects_org_created_at", "organization_id, created_at"},
		{"projects", "idx_projects_org_status", "organization_id, status"},

		// Member listing per organization
		{"organization_members", "idx_org_members_org_joined_at", "organization_id, joined_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns))
	}

	return nil
}
