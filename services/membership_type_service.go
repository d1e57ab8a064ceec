package services

import (
	"context"
	"fmt"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

type MembershipTypeService struct {
	db     *gorm.DB
	photos PhotoUploader
}

func NewMembershipTypeService(db *gorm.DB, photos PhotoUploader) *MembershipTypeService {
	return &MembershipTypeService{db: db, photos: photos}
}

type MembershipTypeInput struct {
	Name         string  `json:"name" binding:"required,max=100"`
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
}

func (in MembershipTypeInput) validate() error {
	if in.DurationDays <= 0 {
		return FieldError("duration_days", "Duration must be a positive number of days.")
	}
	if !utils.IsMoney(in.Price) {
		return FieldError("price", "Price must be non-negative with at most 2 decimal places.")
	}
	return nil
}

func (s *MembershipTypeService) List(ctx context.Context) ([]models.MembershipType, error) {
	var types []models.MembershipType
	err := s.db.WithContext(ctx).Order("duration_days ASC, id ASC").Find(&types).Error
	return types, err
}

func (s *MembershipTypeService) Get(ctx context.Context, id uint) (*models.MembershipType, error) {
	var mt models.MembershipType
	if err := s.db.WithContext(ctx).First(&mt, id).Error; err != nil {
		return nil, notFoundOr(err, "membership type")
	}
	return &mt, nil
}

func (s *MembershipTypeService) Create(ctx context.Context, p Principal, in MembershipTypeInput) (*models.MembershipType, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage membership types")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	mt := &models.MembershipType{
		Name:         in.Name,
		DurationDays: in.DurationDays,
		Price:        utils.RoundCents(in.Price),
		Description:  in.Description,
	}
	if err := s.db.WithContext(ctx).Create(mt).Error; err != nil {
		return nil, err
	}
	return mt, nil
}

func (s *MembershipTypeService) Update(ctx context.Context, p Principal, id uint, in MembershipTypeInput) (*models.MembershipType, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage membership types")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&models.MembershipType{}).Where("id = ?", id).Updates(map[string]any{
		"name":          in.Name,
		"duration_days": in.DurationDays,
		"price":         utils.RoundCents(in.Price),
		"description":   in.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses to drop a type that users still hold.
func (s *MembershipTypeService) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanWriteCatalog(p) {
		return PermissionDenied("only staff can manage membership types")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mt models.MembershipType
		if err := tx.First(&mt, id).Error; err != nil {
			return notFoundOr(err, "membership type")
		}
		var held int64
		if err := tx.Model(&models.UserMembership{}).Where("membership_type_id = ?", id).Count(&held).Error; err != nil {
			return err
		}
		if held > 0 {
			return Conflict("membership type is held by users")
		}
		return tx.Delete(&mt).Error
	})
}

func (s *MembershipTypeService) UploadPhoto(ctx context.Context, p Principal, id uint, data string) (*models.MembershipType, error) {
	if !CanWriteCatalog(p) {
		return nil, PermissionDenied("only staff can manage membership types")
	}
	mt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := uploadPhoto(ctx, s.photos, fmt.Sprintf("membership-types/%d", id), data)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.MembershipType{}).Where("id = ?", id).Update("photo", url).Error; err != nil {
		return nil, err
	}
	mt.Photo = url
	return mt, nil
}
