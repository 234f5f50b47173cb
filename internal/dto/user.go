package dto

import (
	"time"

	"github.com/yukikurage/taskflow/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummaryDTO is the short form of a user embedded in other resources
type UserSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthDTO is returned by register and login
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// MembershipDTO is one organization the current user belongs to
type MembershipDTO struct {
	Role         models.OrganizationRole `json:"role"`
	JoinedAt     time.Time               `json:"joinedAt"`
	Organization OrganizationRefDTO      `json:"organization"`
}

// ProfileDTO is the current user with their memberships
type ProfileDTO struct {
	UserDTO
	Memberships []MembershipDTO `json:"memberships"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{ID: user.ID, Name: user.Name, Email: user.Email}
}

// toUserSummaryPtr returns nil when the relation was not loaded
func toUserSummaryPtr(user *models.User) *UserSummaryDTO {
	if user == nil || user.ID == "" {
		return nil
	}
	summary := ToUserSummaryDTO(*user)
	return &summary
}

func ToAuthDTO(user models.User, token string) AuthDTO {
	return AuthDTO{User: ToUserDTO(user), Token: token}
}

func ToProfileDTO(user models.User) ProfileDTO {
	memberships := make([]MembershipDTO, len(user.Memberships))
	for i, m := range user.Memberships {
		memberships[i] = MembershipDTO{
			Role:         m.Role,
			JoinedAt:     m.JoinedAt,
			Organization: ToOrganizationRefDTO(m.Organization),
		}
	}
	return ProfileDTO{UserDTO: ToUserDTO(user), Memberships: memberships}
}
