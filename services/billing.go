package services

import (
	"errors"
	"fmt"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gorm.io/gorm"
)

const (
	EventPaymentCreated = "payment.created"
	EventPaymentUpdated = "payment.updated"
)

// PaymentPublisher receives payment events once the owning transaction has committed.
type PaymentPublisher interface {
	PublishPayment(userID uint, kind string, p *models.Payment)
}

// BillingLinker raises the pending payment that goes with every billable event.
// Charge* must run inside the transaction that wrote the subject row.
type BillingLinker struct {
	events PaymentPublisher
}

func NewBillingLinker(events PaymentPublisher) *BillingLinker {
	return &BillingLinker{events: events}
}

func (b *BillingLinker) ChargeTraining(tx *gorm.DB, t *models.ScheduledTraining, svc *models.TrainerService) (*models.Payment, error) {
	return charge(tx, t.UserID, svc.Price,
		fmt.Sprintf("Payment for training: %s", svc.Name),
		models.SubjectTraining, t.ID)
}

func (b *BillingLinker) ChargeMembership(tx *gorm.DB, m *models.UserMembership, mt *models.MembershipType) (*models.Payment, error) {
	return charge(tx, m.UserID, mt.Price,
		fmt.Sprintf("Payment for membership: %s", mt.Name),
		models.SubjectMembership, m.ID)
}

func charge(tx *gorm.DB, userID uint, amount float64, desc string, st models.SubjectType, sid uint) (*models.Payment, error) {
	p := &models.Payment{
		UserID:      userID,
		Amount:      utils.RoundCents(amount),
		Status:      models.PaymentPending,
		Description: desc,
		SubjectType: st,
		SubjectID:   sid,
	}
	if err := tx.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// Announce forwards a committed payment to the realtime stream, if one is wired.
func (b *BillingLinker) Announce(kind string, p *models.Payment) {
	if b == nil || b.events == nil || p == nil {
		return
	}
	b.events.PublishPayment(p.UserID, kind, p)
}

// ResolveSubject loads the record a payment was raised for.
// It returns nil without error when the subject has since been deleted.
func ResolveSubject(db *gorm.DB, p *models.Payment) (any, error) {
	var (
		dest any
		err  error
	)
	switch p.SubjectType {
	case models.SubjectTraining:
		var t models.ScheduledTraining
		err = db.Preload("ServiceType").First(&t, p.SubjectID).Error
		dest = &t
	case models.SubjectMembership:
		var m models.UserMembership
		err = db.Preload("MembershipType").First(&m, p.SubjectID).Error
		dest = &m
	default:
		return nil, fmt.Errorf("unknown payment subject type %q", p.SubjectType)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}
