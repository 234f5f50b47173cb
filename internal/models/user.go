package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Memberships []OrganizationMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}

// ensureID keeps a caller-supplied identifier and generates one otherwise.
func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
