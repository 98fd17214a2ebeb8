package summary

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"timeledger/database"
	"timeledger/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "timeledger.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return DayOf(d)
}

func addManual(t *testing.T, db *gorm.DB, userID uint, date time.Time, category models.Category, hours float64) *models.HourEntry {
	t.Helper()
	entry := &models.HourEntry{
		UserID:   userID,
		Date:     DayOf(date),
		Category: category,
		Hours:    hours,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create hour entry: %v", err)
	}
	return entry
}

// addTracked inserts a completed timer entry starting at the given time.
func addTracked(t *testing.T, db *gorm.DB, userID uint, start time.Time, seconds int64) *models.TaskTimeEntry {
	t.Helper()
	task := &models.Task{UserID: userID, Name: "task"}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	end := start.Add(time.Duration(seconds) * time.Second)
	entry := &models.TaskTimeEntry{
		UserID:          userID,
		TaskID:          task.ID,
		StartTime:       start.UTC(),
		EndTime:         &end,
		DurationSeconds: &seconds,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create timer entry: %v", err)
	}
	return entry
}

func addApprovedRequest(t *testing.T, db *gorm.DB, userID uint, typ models.RequestType, from, to time.Time, approvedAt time.Time) *models.Request {
	t.Helper()
	req := &models.Request{
		UserID:          userID,
		Type:            typ,
		StartDate:       DayOf(from),
		EndDate:         DayOf(to),
		Status:          models.RequestApproved,
		AffectsHourType: true,
		ApprovedAt:      &approvedAt,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func fetchRow(t *testing.T, db *gorm.DB, userID uint, date time.Time, category models.Category) *models.DailyHourSummary {
	t.Helper()
	var row models.DailyHourSummary
	err := db.
		Where("user_id = ? AND date = ? AND category = ?", userID, DayOf(date), category).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		t.Fatalf("fetch summary row: %v", err)
	}
	return &row
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.DailyHourSummary{}).Count(&n).Error; err != nil {
		t.Fatalf("count summary rows: %v", err)
	}
	return n
}
