package summary

import (
	"timeledger/models"

	"gorm.io/gorm"
)

// SweepZeroRows deletes summary rows whose amounts have all reconciled to
// zero. The reconciler removes such rows inline; the sweep is the safety
// net for rows left behind by manual data fixes or older migrations. It
// returns the number of rows removed.
func SweepZeroRows(db *gorm.DB) (int64, error) {
	res := db.
		Where("manual_hours = 0 AND tracked_hours = 0 AND total_hours = 0").
		Delete(&models.DailyHourSummary{})
	return res.RowsAffected, res.Error
}
