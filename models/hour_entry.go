package models

import (
	"time"

	"gorm.io/gorm"
)

// HourEntry is a manually entered record of hours for a single day.
// Entries linked to a task (TaskID set) are bookkeeping references created
// by timer imports and are excluded from manual aggregation — their time is
// already counted through TaskTimeEntry.
type HourEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index:idx_hour_entries_user_date,priority:1" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date        time.Time      `gorm:"not null;type:date;index:idx_hour_entries_user_date,priority:2" json:"date"`
	Category    Category       `gorm:"not null;size:20" json:"category"`
	Hours       float64        `gorm:"not null" json:"hours"`
	TaskID      *uint          `gorm:"index" json:"task_id"`
	Task        *Task          `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Description string         `gorm:"size:500" json:"description"`
}

// IsManual reports whether the entry participates in manual aggregation.
func (e *HourEntry) IsManual() bool {
	return e.TaskID == nil
}
