// Package summary implements the daily hour summary reconciliation engine:
// it merges manual hour entries, completed timer entries and approved leave
// requests into one DailyHourSummary row per (user, day, category), and
// keeps those rows consistent as any of the three sources changes.
//
// The merge itself is defined once (see merge in aggregate.go); both the
// per-mutation write path (Recalculate and friends) and the bulk rebuild
// (RebuildAll) go through it, so the two paths cannot drift apart.
package summary

import "time"

// DayOf returns the UTC calendar day the timestamp falls on, as midnight
// UTC. Every comparison or grouping by day in this package goes through
// DayOf, so the write path and the bulk rebuild always agree on which day
// a timestamp belongs to. A timestamp exactly at midnight UTC belongs to
// that day, not the previous one.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
