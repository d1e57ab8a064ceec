package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

// PhotoUploader stores a data-URI image and returns the public URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, prefix, base64Data string) (string, error)
}

var ErrUploadsDisabled = errors.New("photo uploads are not configured")

type GymService struct {
	db     *gorm.DB
	photos PhotoUploader
}

func NewGymService(db *gorm.DB, photos PhotoUploader) *GymService {
	return &GymService{db: db, photos: photos}
}

type GymInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	City        string `json:"city" binding:"required,max=100"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

func (in GymInput) validate() error {
	if !utils.HasStreetNumber(in.Address) {
		return FieldError("address", "Address must contain a street number.")
	}
	return nil
}

func (s *GymService) List(ctx context.Context, city string) ([]models.Gym, error) {
	q := s.db.WithContext(ctx).Order("name ASC, id ASC")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var gyms []models.Gym
	if err := q.Find(&gyms).Error; err != nil {
		return nil, err
	}
	return gyms, nil
}

// Cities returns the distinct cities that have at least one gym.
func (s *GymService) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	err := s.db.WithContext(ctx).
		Model(&models.Gym{}).
		Distinct("city").
		Order("city ASC").
		Pluck("city", &cities).Error
	return cities, err
}

func (s *GymService) Get(ctx context.Context, id uint) (*models.Gym, error) {
	var gym models.Gym
	if err := s.db.WithContext(ctx).Preload("Trainers").First(&gym, id).Error; err != nil {
		return nil, notFoundOr(err, "gym")
	}
	return &gym, nil
}

func (s *GymService) Create(ctx context.Context, p Principal, in GymInput) (*models.Gym, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage gyms")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	gym := &models.Gym{
		Name:        strings.TrimSpace(in.Name),
		City:        strings.TrimSpace(in.City),
		Address:     in.Address,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(gym).Error; err != nil {
		return nil, err
	}
	return gym, nil
}

func (s *GymService) Update(ctx context.Context, p Principal, id uint, in GymInput) (*models.Gym, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage gyms")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	gym, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Gym{}).Where("id = ?", gym.ID).Updates(map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"city":        strings.TrimSpace(in.City),
		"address":     in.Address,
		"description": in.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a gym together with its trainers and their weekly availabilities.
func (s *GymService) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanWriteCatalog(p) {
		return PermissionDenied("only staff can manage gyms")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gym models.Gym
		if err := tx.First(&gym, id).Error; err != nil {
			return notFoundOr(err, "gym")
		}
		var trainerIDs []uint
		if err := tx.Model(&models.Trainer{}).Where("gym_id = ?", gym.ID).Pluck("id", &trainerIDs).Error; err != nil {
			return err
		}
		if err := deleteTrainers(tx, trainerIDs); err != nil {
			return err
		}
		return tx.Delete(&gym).Error
	})
}

func (s *GymService) UploadPhoto(ctx context.Context, p Principal, id uint, data string) (*models.Gym, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage gyms")
	}
	gym, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := uploadPhoto(ctx, s.photos, fmt.Sprintf("gyms/%d", gym.ID), data)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Gym{}).Where("id = ?", gym.ID).Update("photo", url).Error; err != nil {
		return nil, err
	}
	gym.Photo = url
	return gym, nil
}

func uploadPhoto(ctx context.Context, photos PhotoUploader, prefix, data string) (string, error) {
	if photos == nil {
		return "", ErrUploadsDisabled
	}
	if _, err := utils.DecodeDataURI(data); err != nil {
		return "", FieldError("image_base64", err.Error())
	}
	return photos.UploadPhoto(ctx, prefix, data)
}
