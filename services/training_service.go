package services

import (
	"context"
	"log"
	"time"

	"github.com/szymekpro/ztpai-mfs/models"
	"gorm.io/gorm"
)

type TrainingService struct {
	db      *gorm.DB
	billing *BillingLinker
	now     func() time.Time
}

func NewTrainingService(db *gorm.DB, billing *BillingLinker) *TrainingService {
	return &TrainingService{db: db, billing: billing, now: time.Now}
}

type CreateTrainingInput struct {
	TrainerID     uint      `json:"trainer_id" binding:"required"`
	GymID         uint      `json:"gym"`
	ServiceTypeID uint      `json:"service_type_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Description   string    `json:"description"`
}

type PatchTrainingInput struct {
	Status      *models.TrainingStatus `json:"status"`
	Description *string                `json:"description"`
	StartTime   *time.Time             `json:"start_time"`
	EndTime     *time.Time             `json:"end_time"`
}

// Create books a training for the caller and bills it in the same transaction.
func (s *TrainingService) Create(ctx context.Context, p Principal, in CreateTrainingInput) (*models.ScheduledTraining, error) {
	if err := ValidateBooking(in.StartTime, in.EndTime, s.now()); err != nil {
		return nil, err
	}

	var (
		training models.ScheduledTraining
		payment  *models.Payment
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trainer models.Trainer
		if err := tx.First(&trainer, in.TrainerID).Error; err != nil {
			return invalidPK(err, "trainer_id")
		}
		var svc models.TrainerService
		if err := tx.First(&svc, in.ServiceTypeID).Error; err != nil {
			return invalidPK(err, "service_type_id")
		}
		gymID := in.GymID
		if gymID == 0 {
			gymID = trainer.GymID
		} else if gymID != trainer.GymID {
			return FieldError("gym", "trainer does not work at this gym")
		}

		training = models.ScheduledTraining{
			UserID:        p.UserID,
			TrainerID:     trainer.ID,
			GymID:         gymID,
			ServiceTypeID: svc.ID,
			StartTime:     in.StartTime.UTC(),
			EndTime:       in.EndTime.UTC(),
			Status:        models.TrainingScheduled,
			Description:   in.Description,
		}
		if err := tx.Create(&training).Error; err != nil {
			return err
		}
		var err error
		payment, err = s.billing.ChargeTraining(tx, &training, &svc)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.billing.Announce(EventPaymentCreated, payment)

	return s.load(ctx, training.ID)
}

// List returns the caller's own trainings, reconciled against the clock.
// The status filter applies after reconciliation so stale rows land in the right bucket.
func (s *TrainingService) List(ctx context.Context, p Principal, status string) ([]models.ScheduledTraining, error) {
	if status != "" && !models.TrainingStatus(status).Valid() {
		return nil, FieldError("status", "invalid status filter")
	}
	var trainings []models.ScheduledTraining
	err := s.db.WithContext(ctx).
		Preload("Trainer").
		Preload("ServiceType").
		Where("user_id = ?", p.UserID).
		Order("start_time ASC, id ASC").
		Find(&trainings).Error
	if err != nil {
		return nil, err
	}
	refs := make([]*models.ScheduledTraining, len(trainings))
	for i := range trainings {
		refs[i] = &trainings[i]
	}
	if err := s.reconcile(ctx, refs...); err != nil {
		return nil, err
	}
	if status == "" {
		return trainings, nil
	}
	out := make([]models.ScheduledTraining, 0, len(trainings))
	for _, t := range trainings {
		if string(t.Status) == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TrainingService) Get(ctx context.Context, p Principal, id uint) (*models.ScheduledTraining, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanReadTraining(p, t) {
		return nil, NotFound("training")
	}
	if err := s.reconcile(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TrainingService) Patch(ctx context.Context, p Principal, id uint, in PatchTrainingInput) (*models.ScheduledTraining, error) {
	t, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !CanWriteTraining(p, t) {
		return nil, PermissionDenied("you can only modify your own trainings")
	}

	updates := map[string]any{}
	if in.Status != nil && *in.Status != t.Status {
		if *in.Status != models.TrainingCancelled {
			return nil, FieldError("status", "status can only be changed to cancelled")
		}
		if t.Status != models.TrainingScheduled {
			return nil, FieldError("status", "only scheduled trainings can be cancelled")
		}
		updates["status"] = models.TrainingCancelled
	}
	if in.StartTime != nil || in.EndTime != nil {
		if _, cancelling := updates["status"]; cancelling || t.Status != models.TrainingScheduled {
			return nil, ValidationError("only scheduled trainings can be rescheduled")
		}
		start, end := t.StartTime, t.EndTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		if in.EndTime != nil {
			end = *in.EndTime
		}
		if err := ValidateBooking(start, end, s.now()); err != nil {
			return nil, err
		}
		updates["start_time"] = start.UTC()
		updates["end_time"] = end.UTC()
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) > 0 {
		err := s.db.WithContext(ctx).
			Model(&models.ScheduledTraining{}).
			Where("id = ?", t.ID).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return s.load(ctx, t.ID)
}

// Delete removes the caller's training. Its payment is kept.
func (s *TrainingService) Delete(ctx context.Context, p Principal, id uint) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !CanWriteTraining(p, t) {
		return NotFound("training")
	}
	return s.db.WithContext(ctx).Delete(&models.ScheduledTraining{}, t.ID).Error
}

func (s *TrainingService) load(ctx context.Context, id uint) (*models.ScheduledTraining, error) {
	var t models.ScheduledTraining
	err := s.db.WithContext(ctx).
		Preload("Trainer").
		Preload("ServiceType").
		First(&t, id).Error
	if err != nil {
		return nil, notFoundOr(err, "training")
	}
	return &t, nil
}

// reconcile flips finished trainings to completed in memory and persists the change.
func (s *TrainingService) reconcile(ctx context.Context, trainings ...*models.ScheduledTraining) error {
	now := s.now()
	var ids []uint
	for _, t := range trainings {
		if ReconcileTraining(t, now) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ScheduledTraining{}).
			Where("id IN ? AND status = ?", ids, models.TrainingScheduled).
			Update("status", models.TrainingCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("trainings: marked %d as completed", res.RowsAffected)
		}
		return nil
	})
}

// invalidPK turns a missing referenced row into a field validation error.
func invalidPK(err error, field string) error {
	if kind, ok := KindOf(err); ok && kind == KindNotFound {
		return FieldError(field, "Invalid pk - object does not exist.")
	}
	return err
}
