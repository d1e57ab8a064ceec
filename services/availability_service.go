package services

import (
	"context"
	"time"

	"github.com/szymekpro/ztpai-mfs/models"
	"gorm.io/gorm"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// AvailabilityService answers which trainer slots are already taken.
// Calendar days are evaluated in the gym's local time zone.
type AvailabilityService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewAvailabilityService(db *gorm.DB, loc *time.Location) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{db: db, loc: loc, now: time.Now}
}

// BookedHours lists start times ("HH:MM") of non-cancelled trainings on one date.
func (s *AvailabilityService) BookedHours(ctx context.Context, trainerID uint, date string) ([]string, error) {
	if date == "" {
		return nil, FieldError("date", "Missing date parameter")
	}
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return nil, FieldError("date", "Invalid date format. Example: YYYY-MM-DD")
	}
	if err := s.ensureTrainer(ctx, trainerID); err != nil {
		return nil, err
	}

	var trainings []models.ScheduledTraining
	err = s.db.WithContext(ctx).
		Select("id", "start_time").
		Where("trainer_id = ? AND start_time >= ? AND start_time < ? AND status <> ?",
			trainerID, day.UTC(), day.AddDate(0, 0, 1).UTC(), models.TrainingCancelled).
		Order("start_time ASC, id ASC").
		Find(&trainings).Error
	if err != nil {
		return nil, err
	}

	hours := make([]string, 0, len(trainings))
	for _, t := range trainings {
		hours = append(hours, t.StartTime.In(s.loc).Format(clockLayout))
	}
	return hours, nil
}

// BookedHoursRange groups scheduled and completed start times by date, from the first day
// of the current month up to (not including) the first day of the month after next.
func (s *AvailabilityService) BookedHoursRange(ctx context.Context, trainerID uint) (map[string][]string, error) {
	if err := s.ensureTrainer(ctx, trainerID); err != nil {
		return nil, err
	}
	from, to := bookingWindow(s.now().In(s.loc))

	var trainings []models.ScheduledTraining
	err := s.db.WithContext(ctx).
		Select("id", "start_time").
		Where("trainer_id = ? AND start_time >= ? AND start_time < ? AND status IN ?",
			trainerID, from.UTC(), to.UTC(),
			[]models.TrainingStatus{models.TrainingScheduled, models.TrainingCompleted}).
		Order("start_time ASC, id ASC").
		Find(&trainings).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	for _, t := range trainings {
		local := t.StartTime.In(s.loc)
		day := local.Format(dateLayout)
		out[day] = append(out[day], local.Format(clockLayout))
	}
	return out, nil
}

// bookingWindow returns [first of this month, first of the month after next) in now's zone.
func bookingWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 2, 0)
}

func (s *AvailabilityService) ensureTrainer(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Trainer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NotFound("trainer")
	}
	return nil
}
