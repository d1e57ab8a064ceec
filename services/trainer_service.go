package services

import (
	"context"
	"fmt"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

// TrainerDirectory manages trainers, the services they offer and their weekly hours.
type TrainerDirectory struct {
	db     *gorm.DB
	photos PhotoUploader
}

func NewTrainerDirectory(db *gorm.DB, photos PhotoUploader) *TrainerDirectory {
	return &TrainerDirectory{db: db, photos: photos}
}

type TrainerInput struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	GymID     uint   `json:"gym" binding:"required"`
	Bio       string `json:"bio"`
}

type ServiceInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type AvailabilityInput struct {
	TrainerID uint           `json:"trainer" binding:"required"`
	Weekday   models.Weekday `json:"weekday" binding:"required"`
	StartTime string         `json:"start_time" binding:"required,clock"`
	EndTime   string         `json:"end_time" binding:"required,clock"`
}

// TrainerView adds the display name to a trainer.
type TrainerView struct {
	models.Trainer
	FullName string `json:"full_name"`
}

func viewTrainer(t models.Trainer) TrainerView {
	return TrainerView{Trainer: t, FullName: t.FullName()}
}

func (s *TrainerDirectory) List(ctx context.Context, gymID uint) ([]TrainerView, error) {
	q := s.db.WithContext(ctx).
		Preload("Services").
		Preload("Availabilities").
		Order("last_name ASC, first_name ASC, id ASC")
	if gymID != 0 {
		q = q.Where("gym_id = ?", gymID)
	}
	var trainers []models.Trainer
	if err := q.Find(&trainers).Error; err != nil {
		return nil, err
	}
	out := make([]TrainerView, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, viewTrainer(t))
	}
	return out, nil
}

func (s *TrainerDirectory) Get(ctx context.Context, id uint) (*TrainerView, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := viewTrainer(*t)
	return &v, nil
}

func (s *TrainerDirectory) Create(ctx context.Context, p Principal, in TrainerInput) (*TrainerView, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainers")
	}
	if err := s.ensureGym(ctx, in.GymID); err != nil {
		return nil, err
	}
	t := &models.Trainer{FirstName: in.FirstName, LastName: in.LastName, GymID: in.GymID, Bio: in.Bio}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *TrainerDirectory) Update(ctx context.Context, p Principal, id uint, in TrainerInput) (*TrainerView, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainers")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureGym(ctx, in.GymID); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&models.Trainer{}).Where("id = ?", id).Updates(map[string]any{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"gym_id":     in.GymID,
		"bio":        in.Bio,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *TrainerDirectory) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanWriteCatalog(p) {
		return PermissionDenied("only staff can manage trainers")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Trainer{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFound("trainer")
		}
		return deleteTrainers(tx, []uint{id})
	})
}

// SetServices replaces the set of services a trainer offers.
func (s *TrainerDirectory) SetServices(ctx context.Context, p Principal, id uint, serviceIDs []uint) (*TrainerView, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainers")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Trainer
		if err := tx.First(&t, id).Error; err != nil {
			return notFoundOr(err, "trainer")
		}
		var services []models.TrainerService
		if len(serviceIDs) > 0 {
			if err := tx.Where("id IN ?", serviceIDs).Find(&services).Error; err != nil {
				return err
			}
		}
		if len(services) != len(uniqueIDs(serviceIDs)) {
			return FieldError("services", "Invalid pk - object does not exist.")
		}
		return tx.Model(&t).Association("Services").Replace(services)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *TrainerDirectory) UploadPhoto(ctx context.Context, p Principal, id uint, data string) (*TrainerView, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainers")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	url, err := uploadPhoto(ctx, s.photos, fmt.Sprintf("trainers/%d", id), data)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Trainer{}).Where("id = ?", id).Update("photo", url).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Trainer services

func (s *TrainerDirectory) ListServices(ctx context.Context) ([]models.TrainerService, error) {
	var services []models.TrainerService
	err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&services).Error
	return services, err
}

func (s *TrainerDirectory) GetService(ctx context.Context, id uint) (*models.TrainerService, error) {
	var svc models.TrainerService
	if err := s.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFoundOr(err, "trainer service")
	}
	return &svc, nil
}

func (s *TrainerDirectory) CreateService(ctx context.Context, p Principal, in ServiceInput) (*models.TrainerService, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainer services")
	}
	if !utils.IsMoney(in.Price) {
		return nil, FieldError("price", "Price must be non-negative with at most 2 decimal places.")
	}
	svc := &models.TrainerService{Name: in.Name, Description: in.Description, Price: utils.RoundCents(in.Price)}
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *TrainerDirectory) UpdateService(ctx context.Context, p Principal, id uint, in ServiceInput) (*models.TrainerService, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage trainer services")
	}
	if !utils.IsMoney(in.Price) {
		return nil, FieldError("price", "Price must be non-negative with at most 2 decimal places.")
	}
	if _, err := s.GetService(ctx, id); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&models.TrainerService{}).Where("id = ?", id).Updates(map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"price":       utils.RoundCents(in.Price),
	}).Error
	if err != nil {
		return nil, err
	}
	return s.GetService(ctx, id)
}

func (s *TrainerDirectory) DeleteService(ctx context.Context, p Principal, id uint) error {
	if !CanWriteCatalog(p) {
		return PermissionDenied("only staff can manage trainer services")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var svc models.TrainerService
		if err := tx.First(&svc, id).Error; err != nil {
			return notFoundOr(err, "trainer service")
		}
		var booked int64
		if err := tx.Model(&models.ScheduledTraining{}).Where("service_type_id = ?", id).Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return Conflict("service is referenced by scheduled trainings")
		}
		if err := tx.Exec("DELETE FROM trainer_offered_services WHERE trainer_service_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&svc).Error
	})
}

// Availabilities

func (s *TrainerDirectory) ListAvailabilities(ctx context.Context, trainerID uint) ([]models.TrainerAvailability, error) {
	q := s.db.WithContext(ctx).Order("trainer_id ASC, id ASC")
	if trainerID != 0 {
		q = q.Where("trainer_id = ?", trainerID)
	}
	var rows []models.TrainerAvailability
	err := q.Find(&rows).Error
	return rows, err
}

func (s *TrainerDirectory) CreateAvailability(ctx context.Context, p Principal, in AvailabilityInput) (*models.TrainerAvailability, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage availabilities")
	}
	if err := s.validateAvailability(ctx, in); err != nil {
		return nil, err
	}
	a := &models.TrainerAvailability{TrainerID: in.TrainerID, Weekday: in.Weekday, StartTime: in.StartTime, EndTime: in.EndTime}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *TrainerDirectory) UpdateAvailability(ctx context.Context, p Principal, id uint, in AvailabilityInput) (*models.TrainerAvailability, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage availabilities")
	}
	var a models.TrainerAvailability
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, "availability")
	}
	if err := s.validateAvailability(ctx, in); err != nil {
		return nil, err
	}
	a.TrainerID, a.Weekday, a.StartTime, a.EndTime = in.TrainerID, in.Weekday, in.StartTime, in.EndTime
	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *TrainerDirectory) DeleteAvailability(ctx context.Context, p Principal, id uint) error {
	if !CanWriteCatalog(p) {
		return PermissionDenied("only staff can manage availabilities")
	}
	res := s.db.WithContext(ctx).Delete(&models.TrainerAvailability{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFound("availability")
	}
	return nil
}

func (s *TrainerDirectory) validateAvailability(ctx context.Context, in AvailabilityInput) error {
	if !in.Weekday.Valid() {
		return FieldError("weekday", fmt.Sprintf("%q is not a valid choice.", in.Weekday))
	}
	start, err := utils.ParseClock(in.StartTime)
	if err != nil {
		return FieldError("start_time", "Time must be in format HH:MM")
	}
	end, err := utils.ParseClock(in.EndTime)
	if err != nil {
		return FieldError("end_time", "Time must be in format HH:MM")
	}
	if start >= end {
		return ValidationError("Start time must be before end time.")
	}
	if _, err := s.load(ctx, in.TrainerID); err != nil {
		return invalidPK(err, "trainer")
	}
	return nil
}

func (s *TrainerDirectory) load(ctx context.Context, id uint) (*models.Trainer, error) {
	var t models.Trainer
	err := s.db.WithContext(ctx).
		Preload("Services").
		Preload("Availabilities").
		First(&t, id).Error
	if err != nil {
		return nil, notFoundOr(err, "trainer")
	}
	return &t, nil
}

func (s *TrainerDirectory) ensureGym(ctx context.Context, gymID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Gym{}).Where("id = ?", gymID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return FieldError("gym", "Invalid pk - object does not exist.")
	}
	return nil
}

// deleteTrainers drops trainers with their availabilities and service links.
func deleteTrainers(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("trainer_id IN ?", ids).Delete(&models.TrainerAvailability{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM trainer_offered_services WHERE trainer_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Trainer{}).Error
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
