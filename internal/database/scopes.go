package database

import (
	"gorm.io/gorm"
)

// priorityRank maps task priorities to sortable integers.
const priorityRank = "CASE priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 1 ELSE 0 END"

// ByPriority orders tasks URGENT first, breaking ties newest first.
func ByPriority(db *gorm.DB) *gorm.DB {
	return db.Order(priorityRank + " DESC").Order("created_at DESC").Order("id")
}

// NewestFirst orders rows by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id")
}

// OldestMemberFirst orders memberships by join time.
func OldestMemberFirst(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC").Order("user_id")
}
