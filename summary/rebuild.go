package summary

import (
	"fmt"
	"sort"
	"time"

	"timeledger/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advisory lock key serializing full rebuilds on Postgres.
const rebuildLockKey = 7_201_849

type summaryKey struct {
	userID   uint
	day      time.Time
	category models.Category
}

// RebuildAll recomputes the entire summary table from the source tables
// and replaces its contents in one transaction, so concurrent readers see
// either the old rows or the new rows, never a partially rebuilt table.
// On Postgres an advisory lock serializes concurrent rebuilds.
//
// The candidate set is every (user, day, category) that can carry hours:
// manual entries contribute their own key, completed timer entries
// contribute the key of the day's resolved category. Each candidate then
// goes through the same merge as the incremental path, so both paths
// produce identical rows for identical source state.
func RebuildAll(db *gorm.DB) (*models.RebuildReport, error) {
	started := time.Now()
	report := &models.RebuildReport{CorrelationID: uuid.NewString()}

	err := db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", rebuildLockKey).Error; err != nil {
				return fmt.Errorf("acquire rebuild lock: %w", err)
			}
		}

		manual, err := scanManualHours(tx)
		if err != nil {
			return err
		}
		tracked, err := scanTrackedSeconds(tx)
		if err != nil {
			return err
		}

		cache := newResolverCache(tx)

		candidates := make(map[summaryKey]struct{}, len(manual))
		for key := range manual {
			candidates[key] = struct{}{}
		}
		for ud := range tracked {
			resolved, err := cache.resolve(ud.userID, ud.day)
			if err != nil {
				return fmt.Errorf("resolve category: %w", err)
			}
			candidates[summaryKey{userID: ud.userID, day: ud.day, category: resolved}] = struct{}{}
		}

		rows := make([]models.DailyHourSummary, 0, len(candidates))
		for key := range candidates {
			resolved, err := cache.resolve(key.userID, key.day)
			if err != nil {
				return fmt.Errorf("resolve category: %w", err)
			}
			m, t, total := merge(manual[key], tracked[userDay{userID: key.userID, day: key.day}], key.category, resolved)
			if total.IsZero() {
				continue
			}
			rows = append(rows, models.DailyHourSummary{
				UserID:       key.userID,
				Date:         key.day,
				Category:     key.category,
				ManualHours:  m,
				TrackedHours: t,
				TotalHours:   total,
			})
		}
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if a.UserID != b.UserID {
				return a.UserID < b.UserID
			}
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.Category < b.Category
		})

		if err := tx.Exec("DELETE FROM daily_hour_summaries").Error; err != nil {
			return fmt.Errorf("clear summary table: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("insert summary rows: %w", err)
			}
		}

		report.CandidateCount = int64(len(candidates))
		report.RowsWritten = int64(len(rows))
		report.DurationMillis = time.Since(started).Milliseconds()
		return tx.Create(report).Error
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// scanManualHours aggregates manual entries into per-key hour totals. The
// GROUP BY runs on the stored date column, which every write normalized
// through DayOf already; DayOf is applied again on the way out so the
// bucketing cannot diverge from the write path even for rows the driver
// returns in a non-UTC location.
func scanManualHours(tx *gorm.DB) (map[summaryKey]float64, error) {
	var rows []struct {
		UserID   uint
		Date     time.Time
		Category models.Category
		Hours    float64
	}
	err := tx.Model(&models.HourEntry{}).
		Select("user_id, date, category, SUM(hours) AS hours").
		Where("task_id IS NULL").
		Group("user_id, date, category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scan manual entries: %w", err)
	}

	manual := make(map[summaryKey]float64, len(rows))
	for _, r := range rows {
		key := summaryKey{userID: r.UserID, day: DayOf(r.Date), category: r.Category}
		manual[key] += r.Hours
	}
	return manual, nil
}

// scanTrackedSeconds buckets completed timer entries by the UTC day of
// their start time. Bucketing happens in Go through DayOf rather than in
// SQL: a dialect-level date() cast is exactly where the bulk path could
// pick a different timezone rule than the write path.
func scanTrackedSeconds(tx *gorm.DB) (map[userDay]int64, error) {
	var rows []struct {
		UserID          uint
		StartTime       time.Time
		DurationSeconds int64
	}
	err := tx.Model(&models.TaskTimeEntry{}).
		Select("user_id, start_time, duration_seconds").
		Where("end_time IS NOT NULL AND duration_seconds IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scan timer entries: %w", err)
	}

	tracked := make(map[userDay]int64, len(rows))
	for _, r := range rows {
		tracked[userDay{userID: r.UserID, day: DayOf(r.StartTime)}] += r.DurationSeconds
	}
	return tracked, nil
}
