package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
)

var (
	ErrSlugTaken            = errors.New("organization slug already taken")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInviteeNotRegistered = errors.New("user not found, they need to register first")
	ErrAlreadyMember        = errors.New("user is already a member of this organization")
	ErrInvalidRole          = errors.New("invalid role")
	ErrCannotRemoveOwner    = errors.New("cannot remove the organization owner")
	ErrMemberNotFound       = errors.New("member not found")
	ErrFailedToCreateOrg    = errors.New("failed to create organization")
	ErrFailedToAddOwner     = errors.New("failed to add owner to organization")
)

// OrganizationService handles organization related business logic.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// CreateOrganizationInput contains the data required to create an organization.
type CreateOrganizationInput struct {
	Name    string
	Slug    string
	OwnerID string
}

// CreateOrganization creates an organization whose creator becomes its OWNER.
// The returned organization has its members loaded.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	if _, err := s.orgRepo.FindBySlug(ctx, input.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	org := &models.Organization{
		Name:    input.Name,
		Slug:    input.Slug,
		OwnerID: input.OwnerID,
	}

	if err := s.orgRepo.CreateWithOwner(ctx, org, &models.OrganizationMember{}); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateOrganization) && errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrSlugTaken
		case errors.Is(err, repository.ErrCreateOrganization):
			return nil, fmt.Errorf("%w: %w", ErrFailedToCreateOrg, err)
		case errors.Is(err, repository.ErrCreateOrganizationMember):
			return nil, fmt.Errorf("%w: %w", ErrFailedToAddOwner, err)
		default:
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
	}

	return s.GetOrganization(ctx, org.ID)
}

// ListOrganizations returns the organizations the user belongs to, newest first.
func (s *OrganizationService) ListOrganizations(ctx context.Context, userID string) ([]repository.OrganizationSummary, error) {
	summaries, err := s.orgRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return summaries, nil
}

// GetOrganization returns an organization with its members, oldest member first.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.orgRepo.FindWithMembers(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// OrganizationDetail is an organization with its members and project count.
type OrganizationDetail struct {
	Organization *models.Organization
	ProjectCount int64
}

// GetOrganizationDetail returns an organization with members and its project count.
func (s *OrganizationService) GetOrganizationDetail(ctx context.Context, id string) (*OrganizationDetail, error) {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.orgRepo.CountProjects(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return &OrganizationDetail{Organization: org, ProjectCount: count}, nil
}

// InviteMemberInput identifies an existing user to add to an organization.
type InviteMemberInput struct {
	OrganizationID string
	Email          string
	Role           models.OrganizationRole
}

// InviteMember adds a registered user to the organization. OWNER cannot be granted.
func (s *OrganizationService) InviteMember(ctx context.Context, input InviteMemberInput) (*models.OrganizationMember, error) {
	if input.Role != models.RoleAdmin && input.Role != models.RoleMember {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteeNotRegistered
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.orgRepo.FindMember(ctx, input.OrganizationID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: input.OrganizationID,
		UserID:         user.ID,
		Role:           input.Role,
	}
	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember deletes a membership. The organization owner's membership is never removed.
func (s *OrganizationService) RemoveMember(ctx context.Context, organizationID, userID string) error {
	org, err := s.orgRepo.FindByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	if err := s.orgRepo.RemoveMember(ctx, organizationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
