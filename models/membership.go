package models

import (
	"time"

	"gorm.io/datatypes"
)

type MembershipType struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Price        float64   `gorm:"type:decimal(8,2);not null" json:"price"`
	Description  string    `gorm:"type:text" json:"description"`
	Photo        string    `gorm:"size:512;default:'mtype-standard.png'" json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserMembership is reused across purchases of the same type: one row per (user, type).
type UserMembership struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"uniqueIndex:idx_membership_owner;not null" json:"user_id"`
	User             *User           `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	MembershipTypeID uint            `gorm:"uniqueIndex:idx_membership_owner;not null" json:"membership_type_id"`
	MembershipType   *MembershipType `gorm:"constraint:OnDelete:RESTRICT" json:"membership_type,omitempty"`
	StartDate        datatypes.Date  `json:"start_date"`
	EndDate          datatypes.Date  `json:"end_date"`
	IsActive         bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Expired reports whether the membership ended before the given day.
func (m *UserMembership) Expired(today time.Time) bool {
	return Day(time.Time(m.EndDate)).Before(Day(today))
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
