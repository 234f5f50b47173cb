package repository

import (
	"context"
	"time"

	"github.com/yukikurage/taskflow/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindWithMemberships finds a user by ID with memberships and their organizations
	FindWithMemberships(ctx context.Context, id string) (*models.User, error)
}

// OrganizationSummary is an organization as listed for one of its members.
type OrganizationSummary struct {
	ID           string
	Name         string
	Slug         string
	Role         models.OrganizationRole
	MemberCount  int64
	ProjectCount int64
	CreatedAt    time.Time
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// CreateWithOwner creates an organization and its owner's membership atomically
	CreateWithOwner(ctx context.Context, org *models.Organization, owner *models.OrganizationMember) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id string) (*models.Organization, error)

	// FindBySlug finds an organization by slug
	FindBySlug(ctx context.Context, slug string) (*models.Organization, error)

	// FindWithMembers finds an organization with members and their users, oldest member first
	FindWithMembers(ctx context.Context, id string) (*models.Organization, error)

	// ListForUser lists the organizations a user belongs to, newest first
	ListForUser(ctx context.Context, userID string) ([]OrganizationSummary, error)

	// CountProjects counts the projects of an organization
	CountProjects(ctx context.Context, organizationID string) (int64, error)

	// AddMember adds a member to an organization
	AddMember(ctx context.Context, member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(ctx context.Context, organizationID, userID string) error

	// FindMember finds a specific organization member with its organization
	FindMember(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status *models.ProjectStatus
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindInOrganization finds a project by ID that belongs to the organization
	FindInOrganization(ctx context.Context, id, organizationID string) (*models.Project, error)

	// FindWithTasks is FindInOrganization with the project's tasks, newest first
	FindWithTasks(ctx context.Context, id, organizationID string) (*models.Project, error)

	// List retrieves the projects of an organization, newest first
	List(ctx context.Context, organizationID string, filter ProjectFilter) ([]models.Project, error)

	// CountTasks counts tasks per project ID
	CountTasks(ctx context.Context, projectIDs []string) (map[string]int64, error)

	// Update applies column updates to a project
	Update(ctx context.Context, project *models.Project, updates map[string]interface{}) error

	// Delete deletes a project and its tasks
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindInProject finds a task by ID whose project matches both projectID and organizationID
	FindInProject(ctx context.Context, id, projectID, organizationID string) (*models.Task, error)

	// List retrieves the tasks of a project, highest priority first
	List(ctx context.Context, projectID string, filter TaskFilter) ([]models.Task, error)

	// Update applies column updates to a task
	Update(ctx context.Context, task *models.Task, updates map[string]interface{}) error

	// Delete deletes a task
	Delete(ctx context.Context, id string) error
}
