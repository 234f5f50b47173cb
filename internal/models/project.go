package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

type Project struct {
	ID             string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string       `gorm:"type:text" json:"description"`
	Status         ProjectStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	OrganizationID string        `gorm:"type:varchar(36);not null;index" json:"organizationId"`
	CreatorID      string        `gorm:"type:varchar(36);not null" json:"creatorId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Creator      User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Tasks        []Task       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	p.ID = ensureID(p.ID)
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
	return nil
}
