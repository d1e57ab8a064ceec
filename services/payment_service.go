package services

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

type PaymentService struct {
	db      *gorm.DB
	billing *BillingLinker
}

func NewPaymentService(db *gorm.DB, billing *BillingLinker) *PaymentService {
	return &PaymentService{db: db, billing: billing}
}

type CreatePaymentInput struct {
	UserID      uint                 `json:"user" binding:"required"`
	Amount      float64              `json:"amount"`
	Status      models.PaymentStatus `json:"status"`
	Description string               `json:"description"`
	SubjectType models.SubjectType   `json:"subject_type" binding:"required"`
	SubjectID   uint                 `json:"subject_id" binding:"required"`
}

// PaymentPatch carries only the fields present in the request body.
// Other lists any keys outside status, amount and description.
type PaymentPatch struct {
	Status      *models.PaymentStatus
	Amount      *float64
	Description *string
	Other       []string
}

// DecodePaymentPatch parses a JSON object, recording which keys were sent.
func DecodePaymentPatch(body []byte) (PaymentPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return PaymentPatch{}, ValidationError("request body must be a JSON object")
	}
	var patch PaymentPatch
	for key, val := range raw {
		switch key {
		case "status":
			var st models.PaymentStatus
			if err := json.Unmarshal(val, &st); err != nil {
				return patch, FieldError("status", "status must be a string")
			}
			patch.Status = &st
		case "amount":
			var amt float64
			if err := json.Unmarshal(val, &amt); err != nil {
				return patch, FieldError("amount", "amount must be a number")
			}
			patch.Amount = &amt
		case "description":
			var d string
			if err := json.Unmarshal(val, &d); err != nil {
				return patch, FieldError("description", "description must be a string")
			}
			patch.Description = &d
		default:
			patch.Other = append(patch.Other, key)
		}
	}
	sort.Strings(patch.Other)
	return patch, nil
}

// PaymentView is a payment with the record it was raised for.
type PaymentView struct {
	models.Payment
	Subject any `json:"subject"`
}

func (s *PaymentService) List(ctx context.Context, p Principal, status string) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if !p.Elevated() {
		q = q.Where("user_id = ?", p.UserID)
	}
	if status != "" {
		if !models.PaymentStatus(status).Valid() {
			return nil, FieldError("status", "invalid status filter")
		}
		q = q.Where("status = ?", status)
	}
	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *PaymentService) Get(ctx context.Context, p Principal, id uint) (*PaymentView, error) {
	pay, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !CanReadPayment(p, pay) {
		return nil, NotFound("payment")
	}
	subject, err := ResolveSubject(s.db.WithContext(ctx), pay)
	if err != nil {
		return nil, err
	}
	return &PaymentView{Payment: *pay, Subject: subject}, nil
}

// Create is the staff path for manual charges.
func (s *PaymentService) Create(ctx context.Context, p Principal, in CreatePaymentInput) (*models.Payment, error) {
	if !CanCreatePayment(p) {
		return nil, PermissionDenied("members cannot create payments")
	}
	if in.Status == "" {
		in.Status = models.PaymentPending
	}
	if !in.Status.Valid() {
		return nil, FieldError("status", "invalid payment status")
	}
	if !utils.IsMoney(in.Amount) {
		return nil, FieldError("amount", "amount must be non-negative with at most 2 decimal places")
	}
	if !in.SubjectType.Valid() {
		return nil, FieldError("subject_type", "subject_type must be training or membership")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", in.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, FieldError("user", "Invalid pk - object does not exist.")
	}

	pay := &models.Payment{
		UserID:      in.UserID,
		Amount:      utils.RoundCents(in.Amount),
		Status:      in.Status,
		Description: in.Description,
		SubjectType: in.SubjectType,
		SubjectID:   in.SubjectID,
	}
	if err := s.db.WithContext(ctx).Create(pay).Error; err != nil {
		return nil, err
	}
	s.billing.Announce(EventPaymentCreated, pay)
	return pay, nil
}

// Patch applies a partial update. Members may only move their own payment to paid,
// sending nothing but the status field.
func (s *PaymentService) Patch(ctx context.Context, p Principal, id uint, patch PaymentPatch) (*models.Payment, error) {
	var pay *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pay, err = s.load(ctx, forUpdate(tx), id)
		if err != nil {
			return err
		}
		if !p.Elevated() && (len(patch.Other) > 0 || !CanPatchPayment(p, pay, patch)) {
			return PermissionDenied("members can only mark their own payments as paid")
		}
		if len(patch.Other) > 0 {
			return FieldError(patch.Other[0], "field cannot be modified")
		}

		updates := map[string]any{}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return FieldError("status", "invalid payment status")
			}
			updates["status"] = *patch.Status
		}
		if patch.Amount != nil {
			if !utils.IsMoney(*patch.Amount) {
				return FieldError("amount", "amount must be non-negative with at most 2 decimal places")
			}
			updates["amount"] = utils.RoundCents(*patch.Amount)
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Payment{}).Where("id = ?", pay.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	pay, err = s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	s.billing.Announce(EventPaymentUpdated, pay)
	return pay, nil
}

func (s *PaymentService) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanDeletePayment(p) {
		return PermissionDenied("members cannot delete payments")
	}
	res := s.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFound("payment")
	}
	return nil
}

func (s *PaymentService) load(ctx context.Context, db *gorm.DB, id uint) (*models.Payment, error) {
	var pay models.Payment
	if err := db.WithContext(ctx).First(&pay, id).Error; err != nil {
		return nil, notFoundOr(err, "payment")
	}
	return &pay, nil
}
