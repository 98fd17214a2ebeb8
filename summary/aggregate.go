package summary

import (
	"time"

	"timeledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var secondsPerHour = decimal.NewFromInt(3600)

// sumManual sums manual hour entries for one (user, day, category) key.
// Entries linked to a task are excluded: their time is counted through
// TaskTimeEntry and would otherwise be double-counted.
func sumManual(db *gorm.DB, userID uint, day time.Time, category models.Category) (float64, error) {
	var total float64
	err := db.Model(&models.HourEntry{}).
		Where("user_id = ? AND date = ? AND category = ? AND task_id IS NULL", userID, DayOf(day), category).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return total, err
}

// sumTrackedSeconds sums the durations of completed timer entries whose
// start time falls on the given day. The result has no category of its
// own; the caller attributes it to the day's resolved category.
func sumTrackedSeconds(db *gorm.DB, userID uint, day time.Time) (int64, error) {
	start := DayOf(day)
	end := start.AddDate(0, 0, 1)

	var total int64
	err := db.Model(&models.TaskTimeEntry{}).
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, start, end).
		Where("end_time IS NOT NULL AND duration_seconds IS NOT NULL").
		Select("COALESCE(SUM(duration_seconds), 0)").
		Scan(&total).Error
	return total, err
}

// merge combines the aggregated sources for one (user, day, category) key
// into summary amounts. This is the single definition of the
// reconciliation rule: tracked seconds count only toward the key whose
// category equals the day's resolved category, every other category row
// gets zero tracked hours. Both the incremental write path and the bulk
// rebuild call it, so the two paths cannot disagree.
func merge(manualHours float64, trackedSeconds int64, category, resolved models.Category) (manual, tracked, total decimal.Decimal) {
	manual = decimal.NewFromFloat(manualHours).Round(2)
	tracked = decimal.Zero
	if category == resolved && trackedSeconds > 0 {
		tracked = decimal.NewFromInt(trackedSeconds).DivRound(secondsPerHour, 2)
	}
	total = manual.Add(tracked)
	return manual, tracked, total
}
