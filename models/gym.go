package models

import "time"

type Gym struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	City        string    `gorm:"size:100;index;not null" json:"city"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	Description string    `gorm:"type:text" json:"description"`
	Photo       string    `gorm:"size:512;default:'gym-standard.png'" json:"photo"`
	Trainers    []Trainer `gorm:"constraint:OnDelete:CASCADE" json:"trainers,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Trainer struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	FirstName      string                `gorm:"size:50;not null" json:"first_name"`
	LastName       string                `gorm:"size:50;not null" json:"last_name"`
	GymID          uint                  `gorm:"index;not null" json:"gym_id"`
	Gym            *Gym                  `json:"gym,omitempty"`
	Bio            string                `gorm:"type:text" json:"bio"`
	Photo          string                `gorm:"size:512;default:'trainer-standard.png'" json:"photo"`
	Services       []TrainerService      `gorm:"many2many:trainer_offered_services;" json:"services"`
	Availabilities []TrainerAvailability `gorm:"constraint:OnDelete:CASCADE" json:"availability"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// FullName renders "last first", the way trainers are listed at the front desk.
func (t Trainer) FullName() string {
	return t.LastName + " " + t.FirstName
}

type TrainerService struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(8,2);not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// TrainerAvailability is a weekly recurring window. Times are "HH:MM" in the gym's local zone.
type TrainerAvailability struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	TrainerID uint    `gorm:"index;not null" json:"trainer_id"`
	Weekday   Weekday `gorm:"size:10;not null" json:"weekday"`
	StartTime string  `gorm:"size:5;not null" json:"start_time"`
	EndTime   string  `gorm:"size:5;not null" json:"end_time"`
}

func (TrainerAvailability) TableName() string {
	return "trainer_availabilities"
}
