package models

import (
	"testing"
	"time"
)

func TestRequestCategoryMapping(t *testing.T) {
	cases := map[RequestType]Category{
		RequestVacation:   CategoryVacation,
		RequestSickLeave:  CategorySickLeave,
		RequestRemoteWork: CategoryRemoteWork,
		RequestOther:      CategoryOther,
	}
	for typ, want := range cases {
		r := Request{Type: typ}
		if got := r.Category(); got != want {
			t.Errorf("type %s maps to %s, want %s", typ, got, want)
		}
	}
}

func TestRequestAffectsCategories(t *testing.T) {
	now := time.Now()

	r := Request{Status: RequestApproved, AffectsHourType: true}
	if !r.AffectsCategories() {
		t.Error("approved request with affects_hour_type should qualify")
	}

	r = Request{Status: RequestPending, AffectsHourType: true}
	if r.AffectsCategories() {
		t.Error("pending request should not qualify")
	}

	r = Request{Status: RequestApproved, AffectsHourType: false}
	if r.AffectsCategories() {
		t.Error("request without affects_hour_type should not qualify")
	}

	r = Request{Status: RequestApproved, AffectsHourType: true, CancelledAt: &now}
	if r.AffectsCategories() {
		t.Error("cancelled request should not qualify")
	}
}

func TestRequestCovers(t *testing.T) {
	start := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	r := Request{StartDate: start, EndDate: end}

	// Range is inclusive on both ends
	if !r.Covers(start) || !r.Covers(end) {
		t.Error("boundaries should be covered")
	}
	if !r.Covers(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)) {
		t.Error("interior day should be covered")
	}
	if r.Covers(start.AddDate(0, 0, -1)) || r.Covers(end.AddDate(0, 0, 1)) {
		t.Error("days outside the range should not be covered")
	}
}
