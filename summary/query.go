package summary

import (
	"time"

	"timeledger/models"

	"gorm.io/gorm"
)

// Range returns a user's summary rows over an inclusive date range,
// ordered by date, optionally narrowed to one category. This is the only
// read surface the rest of the application uses; nothing outside this
// package writes summary rows.
func Range(db *gorm.DB, userID uint, from, to time.Time, category *models.Category) ([]models.DailyHourSummary, error) {
	from, to = DayOf(from), DayOf(to)

	q := db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date asc, category asc")
	if category != nil {
		q = q.Where("category = ?", *category)
	}

	var rows []models.DailyHourSummary
	err := q.Find(&rows).Error
	return rows, err
}
