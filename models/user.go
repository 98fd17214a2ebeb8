package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleHR         Role = "HR"
	RoleSupervisor Role = "SUPERVISOR"
	RoleEmployee   Role = "EMPLOYEE"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Username           string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string         `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Role               Role           `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool           `gorm:"default:true" json:"must_change_password"`
	TeamID             *uint          `gorm:"index" json:"team_id"`
	Team               *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	ProjectID          *uint          `gorm:"index" json:"project_id"`
	Project            *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	HourEntries        []HourEntry    `gorm:"foreignKey:UserID" json:"hour_entries,omitempty"`
	Requests           []Request      `gorm:"foreignKey:UserID" json:"requests,omitempty"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsHR() bool {
	return u.Role == RoleHR
}

func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

func (u *User) CanManageHoursFor(userID uint) bool {
	if u.IsAdmin() {
		return true
	}
	return u.ID == userID
}

func (u *User) CanViewAllHours() bool {
	return u.IsAdmin() || u.IsHR()
}

func (u *User) CanApproveRequests() bool {
	return u.IsAdmin() || u.IsHR()
}

func (u *User) CanExport() bool {
	return u.IsAdmin() || u.IsHR()
}

func (u *User) CanCreateInvites() bool {
	return u.IsAdmin()
}

func (u *User) CanRebuildSummaries() bool {
	return u.IsAdmin()
}
