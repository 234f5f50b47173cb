package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/constants"
	"github.com/yukikurage/taskflow/internal/models"
)

// SeedPassword is the password of every demo account.
const SeedPassword = "Test1234!"

type seedUser struct {
	email string
	name  string
}

type seedMember struct {
	email string
	role  models.OrganizationRole
}

type seedTask struct {
	title       string
	description string
	status      models.TaskStatus
	priority    models.TaskPriority
	creator     string
	assignee    string
	dueDate     string
}

type seedProject struct {
	name        string
	description string
	status      models.ProjectStatus
	creator     string
	tasks       []seedTask
}

type seedOrganization struct {
	name     string
	slug     string
	owner    string
	members  []seedMember
	projects []seedProject
}

var seedUsers = []seedUser{
	{"john.doe@example.com", "John Doe"},
	{"jane.smith@example.com", "Jane Smith"},
	{"bob.wilson@example.com", "Bob Wilson"},
}

var seedOrganizations = []seedOrganization{
	{
		name:  "Acme Corporation",
		slug:  "acme-corp",
		owner: "john.doe@example.com",
		members: []seedMember{
			{"jane.smith@example.com", models.RoleAdmin},
			{"bob.wilson@example.com", models.RoleMember},
		},
		projects: []seedProject{
			{
				name:        "Website Redesign",
				description: "Complete overhaul of the company website with modern design",
				status:      models.ProjectStatusActive,
				creator:     "john.doe@example.com",
				tasks: []seedTask{
					{"Design homepage mockup", "Create high-fidelity mockup for the new homepage", models.TaskStatusDone, models.TaskPriorityHigh, "john.doe@example.com", "jane.smith@example.com", "2025-01-15"},
					{"Implement responsive navigation", "Build mobile-friendly navigation menu", models.TaskStatusInProgress, models.TaskPriorityHigh, "john.doe@example.com", "bob.wilson@example.com", "2025-02-01"},
					{"Set up contact form", "Create and integrate contact form with backend", models.TaskStatusTodo, models.TaskPriorityMedium, "jane.smith@example.com", "bob.wilson@example.com", "2025-02-10"},
					{"Optimize images for web", "Compress and optimize all images for faster loading", models.TaskStatusTodo, models.TaskPriorityLow, "bob.wilson@example.com", "", "2025-02-15"},
					{"Write SEO meta descriptions", "Create compelling meta descriptions for all pages", models.TaskStatusTodo, models.TaskPriorityMedium, "john.doe@example.com", "jane.smith@example.com", ""},
				},
			},
			{
				name:        "Mobile App Development",
				description: "Native iOS and Android apps for customer engagement",
				status:      models.ProjectStatusActive,
				creator:     "jane.smith@example.com",
				tasks: []seedTask{
					{"Set up React Native project", "Initialize project with Expo and configure dependencies", models.TaskStatusDone, models.TaskPriorityUrgent, "jane.smith@example.com", "bob.wilson@example.com", ""},
					{"Design app icon and splash screen", "Create branded app icon and loading screen", models.TaskStatusInProgress, models.TaskPriorityHigh, "jane.smith@example.com", "jane.smith@example.com", ""},
					{"Implement user authentication", "Add login, signup, and password reset flows", models.TaskStatusTodo, models.TaskPriorityUrgent, "john.doe@example.com", "bob.wilson@example.com", ""},
					{"Build product catalog screen", "Display products with search and filter options", models.TaskStatusTodo, models.TaskPriorityHigh, "jane.smith@example.com", "", ""},
				},
			},
			{
				name:        "Q1 Marketing Campaign",
				description: "Launch new product marketing campaign",
				status:      models.ProjectStatusCompleted,
				creator:     "bob.wilson@example.com",
				tasks: []seedTask{
					{"Plan social media strategy", "Define content calendar and posting schedule", models.TaskStatusDone, models.TaskPriorityHigh, "bob.wilson@example.com", "john.doe@example.com", ""},
					{"Create email templates", "Design responsive email templates for campaign", models.TaskStatusDone, models.TaskPriorityMedium, "bob.wilson@example.com", "jane.smith@example.com", ""},
				},
			},
		},
	},
	{
		name:  "Tech Innovators",
		slug:  "tech-innovators",
		owner: "jane.smith@example.com",
		members: []seedMember{
			{"john.doe@example.com", models.RoleMember},
		},
		projects: []seedProject{
			{
				name:        "AI Assistant Platform",
				description: "Build intelligent assistant for customer support",
				status:      models.ProjectStatusActive,
				creator:     "jane.smith@example.com",
				tasks: []seedTask{
					{"Research AI models", "Evaluate GPT-4 vs Claude for our use case", models.TaskStatusInProgress, models.TaskPriorityHigh, "jane.smith@example.com", "john.doe@example.com", ""},
					{"Design conversation flow", "Map out user journey and conversation paths", models.TaskStatusTodo, models.TaskPriorityMedium, "jane.smith@example.com", "", ""},
				},
			},
		},
	},
}

// Seed inserts the demo accounts, organizations, projects and tasks.
// Users and organizations that already exist are left untouched, so running
// it twice does not duplicate data.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), constants.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make(map[string]string, len(seedUsers))
		for _, su := range seedUsers {
			user := models.User{Email: su.email, Name: su.name, PasswordHash: string(hash)}
			if err := tx.Where(models.User{Email: su.email}).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", su.email, err)
			}
			users[su.email] = user.ID
		}
		log.Info("Seeded users", zap.Int("count", len(users)))

		for _, so := range seedOrganizations {
			var existing models.Organization
			err := tx.Where("slug = ?", so.slug).First(&existing).Error
			if err == nil {
				log.Info("Organization already seeded, skipping", zap.String("slug", so.slug))
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up organization %s: %w", so.slug, err)
			}

			if err := seedOrganizationTree(tx, so, users); err != nil {
				return err
			}
			log.Info("Seeded organization", zap.String("slug", so.slug), zap.Int("projects", len(so.projects)))
		}
		return nil
	})
}

func seedOrganizationTree(tx *gorm.DB, so seedOrganization, users map[string]string) error {
	org := models.Organization{Name: so.name, Slug: so.slug, OwnerID: users[so.owner]}
	if err := tx.Create(&org).Error; err != nil {
		return fmt.Errorf("failed to seed organization %s: %w", so.slug, err)
	}

	members := []models.OrganizationMember{{UserID: org.OwnerID, OrganizationID: org.ID, Role: models.RoleOwner}}
	for _, m := range so.members {
		members = append(members, models.OrganizationMember{UserID: users[m.email], OrganizationID: org.ID, Role: m.role})
	}
	if err := tx.Create(&members).Error; err != nil {
		return fmt.Errorf("failed to seed members of %s: %w", so.slug, err)
	}

	for _, sp := range so.projects {
		description := sp.description
		project := models.Project{
			Name:           sp.name,
			Description:    &description,
			Status:         sp.status,
			OrganizationID: org.ID,
			CreatorID:      users[sp.creator],
		}
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("failed to seed project %s: %w", sp.name, err)
		}

		tasks := make([]models.Task, 0, len(sp.tasks))
		for _, st := range sp.tasks {
			task, err := st.model(project.ID, users)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to seed tasks of %s: %w", sp.name, err)
		}
	}
	return nil
}

func (st seedTask) model(projectID string, users map[string]string) (models.Task, error) {
	description := st.description
	task := models.Task{
		Title:       st.title,
		Description: &description,
		Status:      st.status,
		Priority:    st.priority,
		ProjectID:   projectID,
		CreatorID:   users[st.creator],
	}
	if st.assignee != "" {
		assignee := users[st.assignee]
		task.AssigneeID = &assignee
	}
	if st.dueDate != "" {
		due, err := time.Parse(time.DateOnly, st.dueDate)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid seed due date %q: %w", st.dueDate, err)
		}
		task.DueDate = &due
	}
	return task, nil
}
