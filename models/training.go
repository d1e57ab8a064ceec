package models

import "time"

type TrainingStatus string

const (
	TrainingScheduled TrainingStatus = "scheduled"
	TrainingCompleted TrainingStatus = "completed"
	TrainingCancelled TrainingStatus = "cancelled"
)

func (s TrainingStatus) Valid() bool {
	return s == TrainingScheduled || s == TrainingCompleted || s == TrainingCancelled
}

type ScheduledTraining struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user"`
	TrainerID     uint            `gorm:"index:idx_trainer_start;not null" json:"trainer_id"`
	Trainer       *Trainer        `gorm:"constraint:OnDelete:CASCADE" json:"trainer,omitempty"`
	GymID         uint            `gorm:"index;not null" json:"gym"`
	Gym           *Gym            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ServiceTypeID uint            `gorm:"not null" json:"service_type_id"`
	ServiceType   *TrainerService `gorm:"constraint:OnDelete:RESTRICT" json:"service_type,omitempty"`
	StartTime     time.Time       `gorm:"index:idx_trainer_start;not null" json:"start_time"`
	EndTime       time.Time       `gorm:"not null" json:"end_time"`
	Status        TrainingStatus  `gorm:"size:20;default:'scheduled';index;not null" json:"status"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
