package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyHourSummary is the derived per-user/per-day/per-category aggregate
// the rest of the application reads. It is reconciled row-by-row on every
// source mutation and can be rebuilt wholesale from the source tables.
//
// A row exists only while it carries hours: the reconciler deletes rows
// that compute to zero instead of persisting them.
type DailyHourSummary struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_summaries_user_date_category,priority:1;index:idx_summaries_user_date,priority:1" json:"user_id"`
	Date         time.Time       `gorm:"not null;type:date;uniqueIndex:idx_summaries_user_date_category,priority:2;index:idx_summaries_user_date,priority:2;index" json:"date"`
	Category     Category        `gorm:"not null;size:20;uniqueIndex:idx_summaries_user_date_category,priority:3" json:"category"`
	ManualHours  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"manual_hours"`
	TrackedHours decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tracked_hours"`
	TotalHours   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_hours"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
