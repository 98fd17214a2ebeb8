package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskTimeEntry is a start/stop timer record against a task. EndTime and
// DurationSeconds stay nil while the timer runs; Stop sets both. Only
// completed entries (both fields set) participate in aggregation.
type TaskTimeEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uint           `gorm:"not null;index:idx_time_entries_user_start,priority:1" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TaskID          uint           `gorm:"not null;index" json:"task_id"`
	Task            Task           `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	StartTime       time.Time      `gorm:"not null;index:idx_time_entries_user_start,priority:2" json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	DurationSeconds *int64         `json:"duration_seconds"`
}

func (e *TaskTimeEntry) Completed() bool {
	return e.EndTime != nil && e.DurationSeconds != nil
}

func (e *TaskTimeEntry) Running() bool {
	return e.EndTime == nil
}

// Stop completes the entry at the given time. Stopping an already
// completed entry is a no-op.
func (e *TaskTimeEntry) Stop(at time.Time) {
	if e.Completed() {
		return
	}
	end := at.UTC()
	secs := int64(end.Sub(e.StartTime).Seconds())
	if secs < 0 {
		secs = 0
	}
	e.EndTime = &end
	e.DurationSeconds = &secs
}
