package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/models"
)

var (
	// ErrCreateOrganization is returned when creating the organization row fails.
	ErrCreateOrganization = errors.New("organization repository: create organization failed")
	// ErrCreateOrganizationMember is returned when creating the owner membership fails.
	ErrCreateOrganizationMember = errors.New("organization repository: create owner membership failed")
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateWithOwner creates the organization and the owner's membership in one transaction.
// Underlying store errors stay reachable through errors.Is.
func (r *GormOrganizationRepository) CreateWithOwner(ctx context.Context, org *models.Organization, owner *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganization, err)
		}

		owner.OrganizationID = org.ID
		owner.UserID = org.OwnerID
		owner.Role = models.RoleOwner

		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganizationMember, err)
		}

		return nil
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindBySlug finds an organization by slug
func (r *GormOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindWithMembers finds an organization with its members, oldest member first
func (r *GormOrganizationRepository) FindWithMembers(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).
		Preload("Members", database.OldestMemberFirst).
		Preload("Members.User").
		Where("id = ?", id).
		First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ListForUser lists the organizations a user belongs to with the user's role and counts
func (r *GormOrganizationRepository) ListForUser(ctx context.Context, userID string) ([]OrganizationSummary, error) {
	memberCount := r.db.Model(&models.OrganizationMember{}).
		Select("COUNT(*)").
		Where("organization_members.organization_id = organizations.id")
	projectCount := r.db.Model(&models.Project{}).
		Select("COUNT(*)").
		Where("projects.organization_id = organizations.id")

	var summaries []OrganizationSummary
	err := r.db.WithContext(ctx).
		Table("organizations").
		Select("organizations.id, organizations.name, organizations.slug, organizations.created_at, m.role, (?) AS member_count, (?) AS project_count", memberCount, projectCount).
		Joins("JOIN organization_members m ON m.organization_id = organizations.id AND m.user_id = ?", userID).
		Order("organizations.created_at DESC").
		Order("organizations.id").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// CountProjects counts the projects of an organization
func (r *GormOrganizationRepository) CountProjects(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return count, err
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(ctx context.Context, member *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember removes a member from an organization.
// It returns gorm.ErrRecordNotFound when no such membership exists.
func (r *GormOrganizationRepository) RemoveMember(ctx context.Context, organizationID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.OrganizationMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
