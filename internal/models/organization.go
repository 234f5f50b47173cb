package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Owner    User                 `gorm:"foreignKey:OwnerID" json:"-"`
	Members  []OrganizationMember `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Projects []Project            `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	o.ID = ensureID(o.ID)
	return nil
}
