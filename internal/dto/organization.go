package dto

import (
	"time"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
)

// OrganizationRefDTO identifies an organization inside another resource
type OrganizationRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	UserID         string                  `json:"userId"`
	OrganizationID string                  `json:"organizationId"`
	Role           models.OrganizationRole `json:"role"`
	JoinedAt       time.Time               `json:"joinedAt"`
	User           UserSummaryDTO          `json:"user"`
}

// OrganizationWithMembersDTO is returned when an organization is created
type OrganizationWithMembersDTO struct {
	OrganizationDTO
	Members []OrganizationMemberDTO `json:"members"`
}

// OrganizationDetailDTO adds the project count to an organization with members
type OrganizationDetailDTO struct {
	OrganizationWithMembersDTO
	ProjectCount int64 `json:"projectCount"`
}

// OrganizationSummaryDTO is an entry of the caller's organization list
type OrganizationSummaryDTO struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Slug         string                  `json:"slug"`
	Role         models.OrganizationRole `json:"role"`
	MemberCount  int64                   `json:"memberCount"`
	ProjectCount int64                   `json:"projectCount"`
	CreatedAt    time.Time               `json:"createdAt"`
}

func ToOrganizationRefDTO(org models.Organization) OrganizationRefDTO {
	return OrganizationRefDTO{ID: org.ID, Name: org.Name, Slug: org.Slug}
}

func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		OwnerID:   org.OwnerID,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		Role:           member.Role,
		JoinedAt:       member.JoinedAt,
		User:           ToUserSummaryDTO(member.User),
	}
}

func ToOrganizationWithMembersDTO(org models.Organization) OrganizationWithMembersDTO {
	members := make([]OrganizationMemberDTO, len(org.Members))
	for i, member := range org.Members {
		members[i] = ToOrganizationMemberDTO(member)
	}
	return OrganizationWithMembersDTO{
		OrganizationDTO: ToOrganizationDTO(org),
		Members:         members,
	}
}

func ToOrganizationDetailDTO(org models.Organization, projectCount int64) OrganizationDetailDTO {
	return OrganizationDetailDTO{
		OrganizationWithMembersDTO: ToOrganizationWithMembersDTO(org),
		ProjectCount:               projectCount,
	}
}

func ToOrganizationSummaryDTOs(summaries []repository.OrganizationSummary) []OrganizationSummaryDTO {
	out := make([]OrganizationSummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = OrganizationSummaryDTO{
			ID:           s.ID,
			Name:         s.Name,
			Slug:         s.Slug,
			Role:         s.Role,
			MemberCount:  s.MemberCount,
			ProjectCount: s.ProjectCount,
			CreatedAt:    s.CreatedAt,
		}
	}
	return out
}
