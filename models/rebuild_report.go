package models

import "time"

// RebuildReport is the audit row written after each full summary rebuild.
type RebuildReport struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CorrelationID  string    `gorm:"size:64;index" json:"correlation_id"`
	CandidateCount int64     `json:"candidate_count"`
	RowsWritten    int64     `json:"rows_written"`
	DurationMillis int64     `json:"duration_millis"`
	CreatedAt      time.Time `json:"created_at"`
}
