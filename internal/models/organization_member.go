package models

import (
	"slices"
	"time"
)

type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "OWNER"
	RoleAdmin  OrganizationRole = "ADMIN"
	RoleMember OrganizationRole = "MEMBER"
)

// Valid reports whether r is a known role.
func (r OrganizationRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// IsAuthorized reports whether role is one of required.
func IsAuthorized(role OrganizationRole, required []OrganizationRole) bool {
	return slices.Contains(required, role)
}

type OrganizationMember struct {
	UserID         string           `gorm:"type:varchar(36);primaryKey" json:"userId"`
	OrganizationID string           `gorm:"type:varchar(36);primaryKey;index" json:"organizationId"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	JoinedAt       time.Time        `gorm:"autoCreateTime" json:"joinedAt"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
