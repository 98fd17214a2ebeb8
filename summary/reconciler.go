package summary

import (
	"fmt"
	"time"

	"timeledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recalculate recomputes the summary row for one (user, day, category)
// key from the current source tables and upserts it, deleting the row
// instead when everything sums to zero. The result is a pure function of
// source state, never of the previous summary row, so repeated calls are
// idempotent. The read-aggregate-upsert sequence runs in a transaction;
// passing an open transaction joins it via a savepoint.
func Recalculate(db *gorm.DB, userID uint, day time.Time, category models.Category) error {
	day = DayOf(day)
	return db.Transaction(func(tx *gorm.DB) error {
		return recalculateKey(tx, userID, day, category, newResolverCache(tx))
	})
}

func recalculateKey(tx *gorm.DB, userID uint, day time.Time, category models.Category, cache *resolverCache) error {
	manualHours, err := sumManual(tx, userID, day, category)
	if err != nil {
		return fmt.Errorf("sum manual hours: %w", err)
	}

	resolved, err := cache.resolve(userID, day)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	trackedSeconds, err := sumTrackedSeconds(tx, userID, day)
	if err != nil {
		return fmt.Errorf("sum tracked seconds: %w", err)
	}

	manual, tracked, total := merge(manualHours, trackedSeconds, category, resolved)

	// Zero rows are deleted, not upserted: leaving them behind is how
	// stale ORDINARY_WORK rows accumulate after a category change.
	if total.IsZero() {
		return tx.
			Where("user_id = ? AND date = ? AND category = ?", userID, day, category).
			Delete(&models.DailyHourSummary{}).Error
	}

	row := models.DailyHourSummary{
		UserID:       userID,
		Date:         day,
		Category:     category,
		ManualHours:  manual,
		TrackedHours: tracked,
		TotalHours:   total,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"manual_hours", "tracked_hours", "total_hours", "updated_at",
		}),
	}).Create(&row).Error
}

// RecalculateDay recomputes every category that could hold hours for the
// user on the given day: categories of existing manual entries, categories
// that currently have a summary row (so stale rows get cleared), the day's
// resolved category and ORDINARY_WORK (where tracked time lands when no
// leave applies). Mutations that can move hours between categories —
// timer stops, entry edits, request approval or cancellation — go through
// here rather than guessing which single key changed.
func RecalculateDay(db *gorm.DB, userID uint, day time.Time) error {
	day = DayOf(day)
	return db.Transaction(func(tx *gorm.DB) error {
		return recalculateDay(tx, userID, day, newResolverCache(tx))
	})
}

func recalculateDay(tx *gorm.DB, userID uint, day time.Time, cache *resolverCache) error {
	resolved, err := cache.resolve(userID, day)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	affected := map[models.Category]struct{}{
		models.CategoryOrdinaryWork: {},
		resolved:                    {},
	}

	var entryCategories []models.Category
	if err := tx.Model(&models.HourEntry{}).
		Where("user_id = ? AND date = ? AND task_id IS NULL", userID, day).
		Distinct().
		Pluck("category", &entryCategories).Error; err != nil {
		return fmt.Errorf("list entry categories: %w", err)
	}
	for _, c := range entryCategories {
		affected[c] = struct{}{}
	}

	var rowCategories []models.Category
	if err := tx.Model(&models.DailyHourSummary{}).
		Where("user_id = ? AND date = ?", userID, day).
		Pluck("category", &rowCategories).Error; err != nil {
		return fmt.Errorf("list summary categories: %w", err)
	}
	for _, c := range rowCategories {
		affected[c] = struct{}{}
	}

	for _, c := range models.Categories() {
		if _, ok := affected[c]; !ok {
			continue
		}
		if err := recalculateKey(tx, userID, day, c, cache); err != nil {
			return err
		}
	}
	return nil
}

// RecalculateRange runs a per-day recalculation over an inclusive date
// range. Approving or cancelling a request changes the resolved category
// for every day it covers, so those handlers pass the request's full span
// here. The whole range commits atomically.
func RecalculateRange(db *gorm.DB, userID uint, from, to time.Time) error {
	from, to = DayOf(from), DayOf(to)
	if to.Before(from) {
		return fmt.Errorf("recalculate range: end %s before start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return db.Transaction(func(tx *gorm.DB) error {
		cache := newResolverCache(tx)
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if err := recalculateDay(tx, userID, day, cache); err != nil {
				return fmt.Errorf("recalculate %s: %w", day.Format("2006-01-02"), err)
			}
		}
		return nil
	})
}
