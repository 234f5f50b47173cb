package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// TaskPriorities lists priorities from lowest to highest.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

type Task struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	ProjectID   string       `gorm:"type:varchar(36);not null;index" json:"projectId"`
	AssigneeID  *string      `gorm:"type:varchar(36);index" json:"assigneeId"`
	CreatorID   string       `gorm:"type:varchar(36);not null" json:"creatorId"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	t.ID = ensureID(t.ID)
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	return nil
}
