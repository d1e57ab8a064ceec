package services

import "github.com/szymekpro/ztpai-mfs/models"

// Principal is the authenticated caller as supplied by the bearer middleware.
type Principal struct {
	UserID uint
	Email  string
	Role   models.Role
}

func (p Principal) Elevated() bool {
	return p.Role.Elevated()
}

// Payments

func CanReadPayment(p Principal, pay *models.Payment) bool {
	return p.Elevated() || pay.UserID == p.UserID
}

func CanCreatePayment(p Principal) bool {
	return p.Elevated()
}

func CanDeletePayment(p Principal) bool {
	return p.Elevated()
}

// CanPatchPayment allows staff anything; members may only mark their own payment as paid.
func CanPatchPayment(p Principal, pay *models.Payment, patch PaymentPatch) bool {
	if p.Elevated() {
		return true
	}
	if pay.UserID != p.UserID {
		return false
	}
	if patch.Amount != nil || patch.Description != nil || patch.Status == nil {
		return false
	}
	return *patch.Status == models.PaymentPaid
}

// Memberships

func CanReadMembership(p Principal, m *models.UserMembership) bool {
	return p.Elevated() || m.UserID == p.UserID
}

func CanAdministerMembership(p Principal) bool {
	return p.Elevated()
}

// Trainings are private to their owner regardless of role.

func CanReadTraining(p Principal, t *models.ScheduledTraining) bool {
	return t.UserID == p.UserID
}

func CanWriteTraining(p Principal, t *models.ScheduledTraining) bool {
	return t.UserID == p.UserID
}

// Users

func CanReadUser(p Principal, u *models.User) bool {
	return p.Elevated() || u.ID == p.UserID
}

func CanWriteUser(p Principal, u *models.User) bool {
	return p.Elevated() || u.ID == p.UserID
}

func CanChangeRole(p Principal) bool {
	return p.Elevated()
}

func CanDeleteUser(p Principal) bool {
	return p.Elevated()
}

// Catalog (gyms, trainers, services, availabilities, membership types)

func CanWriteCatalog(p Principal) bool {
	return p.Elevated()
}
