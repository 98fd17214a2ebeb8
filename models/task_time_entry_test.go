package models

import (
	"testing"
	"time"
)

func TestTaskTimeEntryStop(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e := TaskTimeEntry{StartTime: start}

	if e.Completed() || !e.Running() {
		t.Fatal("fresh entry should be running")
	}

	e.Stop(start.Add(90 * time.Minute))
	if !e.Completed() || e.Running() {
		t.Fatal("stopped entry should be completed")
	}
	if *e.DurationSeconds != 5400 {
		t.Fatalf("duration = %d, want 5400", *e.DurationSeconds)
	}

	// Second stop is a no-op
	firstEnd := *e.EndTime
	e.Stop(start.Add(5 * time.Hour))
	if !e.EndTime.Equal(firstEnd) || *e.DurationSeconds != 5400 {
		t.Fatal("stopping a completed entry should not change it")
	}
}

func TestTaskTimeEntryStopClampsNegativeDuration(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e := TaskTimeEntry{StartTime: start}

	e.Stop(start.Add(-time.Hour))
	if *e.DurationSeconds != 0 {
		t.Fatalf("duration = %d, want 0 for clock skew", *e.DurationSeconds)
	}
}
