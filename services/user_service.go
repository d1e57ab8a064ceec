package services

import (
	"context"
	"strings"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewUserService(db *gorm.DB, notifier Notifier) *UserService {
	return &UserService{db: db, notifier: notifier}
}

type RegisterInput struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	FirstName    string `json:"first_name" binding:"required,max=30,letters"`
	LastName     string `json:"last_name" binding:"required,max=30,letters"`
	Phone        string `json:"phone" binding:"required,phone"`
	Street       string `json:"street" binding:"required,max=20,street"`
	StreetNumber string `json:"street_number" binding:"required,max=20"`
	City         string `json:"city" binding:"required,max=20"`
	PostalCode   string `json:"postal_code" binding:"required,postalcode"`
	IsStudent    bool   `json:"is_student"`
}

type UpdateUserInput struct {
	FirstName    *string      `json:"first_name" binding:"omitempty,max=30,letters"`
	LastName     *string      `json:"last_name" binding:"omitempty,max=30,letters"`
	Phone        *string      `json:"phone" binding:"omitempty,phone"`
	Street       *string      `json:"street" binding:"omitempty,max=20,street"`
	StreetNumber *string      `json:"street_number" binding:"omitempty,max=20"`
	City         *string      `json:"city" binding:"omitempty,max=20"`
	PostalCode   *string      `json:"postal_code" binding:"omitempty,postalcode"`
	IsStudent    *bool        `json:"is_student"`
	Password     *string      `json:"password" binding:"omitempty,min=6"`
	Role         *models.Role `json:"role"`
}

// Register creates a member account and sends the welcome e-mail once the row is committed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, FieldError("email", "user with this email already exists.")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Password:     hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Street:       in.Street,
		StreetNumber: in.StreetNumber,
		City:         in.City,
		PostalCode:   in.PostalCode,
		IsStudent:    in.IsStudent,
		IsActive:     true,
		Role:         models.RoleMember,
	}
	user.ApplyRoleFlags()
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	notifyWelcome(s.notifier, user.Email, user.FirstName)
	return user, nil
}

// CreateWithRole is used by the seeder to provision staff accounts.
func (s *UserService) CreateWithRole(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, FieldError("role", "invalid role")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: strings.ToLower(email), Password: hashed, Role: role, IsActive: true}
	user.ApplyRoleFlags()
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, p Principal) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if !p.Elevated() {
		q = q.Where("id = ?", p.UserID)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, p Principal, id uint) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanReadUser(p, user) {
		return nil, NotFound("user")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, p Principal, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanWriteUser(p, user) {
		return nil, PermissionDenied("you can only update your own profile")
	}
	if in.Role != nil && *in.Role != user.Role {
		if !CanChangeRole(p) {
			return nil, PermissionDenied("you cannot change your role")
		}
		if !in.Role.Valid() {
			return nil, FieldError("role", "role must be admin, employee or member")
		}
		user.Role = *in.Role
	}

	setIf(&user.FirstName, in.FirstName)
	setIf(&user.LastName, in.LastName)
	setIf(&user.Phone, in.Phone)
	setIf(&user.Street, in.Street)
	setIf(&user.StreetNumber, in.StreetNumber)
	setIf(&user.City, in.City)
	setIf(&user.PostalCode, in.PostalCode)
	if in.IsStudent != nil {
		user.IsStudent = *in.IsStudent
	}
	if in.Password != nil {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	user.ApplyRoleFlags()
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete cancels the user's scheduled trainings, drops their memberships and then the
// account itself. Payments stay behind, keyed by the old user id.
func (s *UserService) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanDeleteUser(p) {
		return PermissionDenied("only staff can delete users")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user")
		}
		err := tx.Model(&models.ScheduledTraining{}).
			Where("user_id = ? AND status = ?", user.ID, models.TrainingScheduled).
			Update("status", models.TrainingCancelled).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func (s *UserService) load(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
