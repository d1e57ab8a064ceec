package models

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// SubjectType tags what a payment was raised for.
type SubjectType string

const (
	SubjectTraining   SubjectType = "training"
	SubjectMembership SubjectType = "membership"
)

func (s SubjectType) Valid() bool {
	return s == SubjectTraining || s == SubjectMembership
}

// Payment keeps user and subject as plain ids so the row outlives whatever it billed.
type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index;not null" json:"user"`
	Amount      float64       `gorm:"type:decimal(8,2);not null" json:"amount"`
	Status      PaymentStatus `gorm:"size:20;default:'pending';index;not null" json:"status"`
	Description string        `gorm:"type:text" json:"description"`
	SubjectType SubjectType   `gorm:"size:20;index:idx_payment_subject;not null" json:"subject_type"`
	SubjectID   uint          `gorm:"index:idx_payment_subject;not null" json:"subject_id"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
