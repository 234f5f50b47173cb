// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/models"
)

// NewDB opens a migrated in-memory sqlite database that is closed when t ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to ":memory:" would see an empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, email, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Email: email, Name: name, PasswordHash: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateOrganization inserts an organization owned by owner, including the
// OWNER membership.
func CreateOrganization(t testing.TB, db *gorm.DB, slug string, owner *models.User) *models.Organization {
	t.Helper()

	org := &models.Organization{Name: slug + " org", Slug: slug, OwnerID: owner.ID}
	require.NoError(t, db.Create(org).Error)
	AddMember(t, db, org, owner, models.RoleOwner)
	return org
}

// AddMember inserts a membership.
func AddMember(t testing.TB, db *gorm.DB, org *models.Organization, user *models.User, role models.OrganizationRole) {
	t.Helper()

	member := &models.OrganizationMember{OrganizationID: org.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Create(member).Error)
}

// CreateProject inserts an ACTIVE project.
func CreateProject(t testing.TB, db *gorm.DB, org *models.Organization, creator *models.User, name string) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, OrganizationID: org.ID, CreatorID: creator.ID}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTask inserts a task with the given priority, created at createdAt.
func CreateTask(t testing.TB, db *gorm.DB, project *models.Project, creator *models.User, title string, priority models.TaskPriority, createdAt time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		Priority:  priority,
		ProjectID: project.ID,
		CreatorID: creator.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
