package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestType string

const (
	RequestVacation   RequestType = "VACATION"
	RequestSickLeave  RequestType = "SICK_LEAVE"
	RequestRemoteWork RequestType = "REMOTE_WORK"
	RequestOther      RequestType = "OTHER"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestVacation, RequestSickLeave, RequestRemoteWork, RequestOther:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

// Request is a leave or remote-work request spanning an inclusive date
// range. Only approved, non-cancelled requests with AffectsHourType set
// recategorize hours on the days they cover.
type Request struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uint           `gorm:"not null;index:idx_requests_user_dates,priority:1" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type            RequestType    `gorm:"not null;size:20" json:"type"`
	StartDate       time.Time      `gorm:"not null;type:date;index:idx_requests_user_dates,priority:2" json:"start_date"`
	EndDate         time.Time      `gorm:"not null;type:date;index:idx_requests_user_dates,priority:3" json:"end_date"`
	Status          RequestStatus  `gorm:"not null;size:20;default:'PENDING'" json:"status"`
	AffectsHourType bool           `gorm:"not null;default:true" json:"affects_hour_type"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	ApprovedBy      *uint          `json:"approved_by"`
	Approver        *User          `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	CancelledAt     *time.Time     `json:"cancelled_at"`
	Comment         string         `gorm:"size:500" json:"comment"`
}

// Category maps the request type to the hour category it recategorizes
// covered days into.
func (r *Request) Category() Category {
	switch r.Type {
	case RequestVacation:
		return CategoryVacation
	case RequestSickLeave:
		return CategorySickLeave
	case RequestRemoteWork:
		return CategoryRemoteWork
	default:
		return CategoryOther
	}
}

// AffectsCategories reports whether the request participates in category
// resolution.
func (r *Request) AffectsCategories() bool {
	return r.Status == RequestApproved && r.AffectsHourType && r.CancelledAt == nil
}

// Covers reports whether the given day falls inside the request's
// inclusive date range.
func (r *Request) Covers(day time.Time) bool {
	return !day.Before(r.StartDate) && !day.After(r.EndDate)
}
