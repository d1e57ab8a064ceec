package services

import (
	"context"
	"time"

	"github.com/szymekpro/ztpai-mfs/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MembershipService struct {
	db      *gorm.DB
	billing *BillingLinker
	loc     *time.Location
	now     func() time.Time
}

func NewMembershipService(db *gorm.DB, billing *BillingLinker, loc *time.Location) *MembershipService {
	if loc == nil {
		loc = time.Local
	}
	return &MembershipService{db: db, billing: billing, loc: loc, now: time.Now}
}

type PurchaseMembershipInput struct {
	MembershipTypeID uint `json:"membership_type_id" binding:"required"`
}

// MembershipPatch is the staff-only partial update. Dates are "YYYY-MM-DD".
type MembershipPatch struct {
	IsActive  *bool   `json:"is_active"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// MembershipView adds the derived expired flag to a membership.
type MembershipView struct {
	models.UserMembership
	Expired bool `json:"expired"`
}

func (s *MembershipService) today() time.Time {
	return models.Day(s.now().In(s.loc))
}

func (s *MembershipService) view(m models.UserMembership) MembershipView {
	return MembershipView{UserMembership: m, Expired: m.Expired(s.today())}
}

// List returns every membership to staff and only the caller's own to members.
func (s *MembershipService) List(ctx context.Context, p Principal) ([]MembershipView, error) {
	q := s.db.WithContext(ctx).Preload("MembershipType").Order("id ASC")
	if !p.Elevated() {
		q = q.Where("user_id = ?", p.UserID)
	}
	return s.find(ctx, q)
}

// Mine returns the caller's own memberships regardless of role.
func (s *MembershipService) Mine(ctx context.Context, p Principal) ([]MembershipView, error) {
	q := s.db.WithContext(ctx).Preload("MembershipType").Where("user_id = ?", p.UserID).Order("id ASC")
	return s.find(ctx, q)
}

func (s *MembershipService) find(ctx context.Context, q *gorm.DB) ([]MembershipView, error) {
	var rows []models.UserMembership
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	refs := make([]*models.UserMembership, len(rows))
	for i := range rows {
		refs[i] = &rows[i]
	}
	if err := s.reconcile(ctx, refs...); err != nil {
		return nil, err
	}
	out := make([]MembershipView, 0, len(rows))
	for _, m := range rows {
		out = append(out, s.view(m))
	}
	return out, nil
}

func (s *MembershipService) Get(ctx context.Context, p Principal, id uint) (*MembershipView, error) {
	m, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !CanReadMembership(p, m) {
		return nil, NotFound("membership")
	}
	if err := s.reconcile(ctx, m); err != nil {
		return nil, err
	}
	v := s.view(*m)
	return &v, nil
}

// HasActive reports whether the caller holds any active membership after reconciliation.
func (s *MembershipService) HasActive(ctx context.Context, p Principal) (bool, error) {
	views, err := s.Mine(ctx, p)
	if err != nil {
		return false, err
	}
	for _, v := range views {
		if v.IsActive {
			return true, nil
		}
	}
	return false, nil
}

// Purchase activates a membership of the given type for the caller and bills it.
// A previously expired row of the same type is reused instead of inserting a new one.
func (s *MembershipService) Purchase(ctx context.Context, p Principal, in PurchaseMembershipInput) (*MembershipView, error) {
	var (
		membership models.UserMembership
		payment    *models.Payment
	)
	today := s.today()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mt models.MembershipType
		if err := tx.First(&mt, in.MembershipTypeID).Error; err != nil {
			return invalidPK(err, "membership_type_id")
		}

		var rows []models.UserMembership
		err := forUpdate(tx).
			Where("user_id = ? AND membership_type_id = ?", p.UserID, mt.ID).
			Order("id ASC").
			Find(&rows).Error
		if err != nil {
			return err
		}
		for i := range rows {
			if ReconcileMembership(&rows[i], today) {
				err := tx.Model(&models.UserMembership{}).
					Where("id = ?", rows[i].ID).
					Update("is_active", false).Error
				if err != nil {
					return err
				}
			}
			if rows[i].IsActive {
				return Conflict("already has an active membership of this type")
			}
		}

		if len(rows) > 0 {
			membership = rows[0]
		} else {
			membership = models.UserMembership{UserID: p.UserID, MembershipTypeID: mt.ID}
		}
		payment, err = s.activate(tx, &membership, &mt, today)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.billing.Announce(EventPaymentCreated, payment)

	m, err := s.load(ctx, s.db, membership.ID)
	if err != nil {
		return nil, err
	}
	v := s.view(*m)
	return &v, nil
}

// activate sets the billing window starting today, flips the row active and charges it.
func (s *MembershipService) activate(tx *gorm.DB, m *models.UserMembership, mt *models.MembershipType, today time.Time) (*models.Payment, error) {
	m.StartDate = datatypes.Date(today)
	m.EndDate = datatypes.Date(today.AddDate(0, 0, mt.DurationDays))
	m.IsActive = true
	if m.ID == 0 {
		if err := tx.Omit("User", "MembershipType").Create(m).Error; err != nil {
			return nil, err
		}
	} else {
		err := tx.Model(&models.UserMembership{}).Where("id = ?", m.ID).Updates(map[string]any{
			"start_date": m.StartDate,
			"end_date":   m.EndDate,
			"is_active":  true,
		}).Error
		if err != nil {
			return nil, err
		}
	}
	return s.billing.ChargeMembership(tx, m, mt)
}

// AdminPatch lets staff force a membership on or off. Reactivation restarts the billing
// window and raises a new payment, exactly like a repeat purchase.
func (s *MembershipService) AdminPatch(ctx context.Context, p Principal, id uint, in MembershipPatch) (*MembershipView, error) {
	if !CanAdministerMembership(p) {
		return nil, PermissionDenied("only staff can modify memberships")
	}
	today := s.today()
	var payment *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.load(ctx, forUpdate(tx), id)
		if err != nil {
			return err
		}
		ReconcileMembership(m, today)

		if in.IsActive != nil && *in.IsActive && !m.IsActive {
			var others int64
			err := tx.Model(&models.UserMembership{}).
				Where("user_id = ? AND membership_type_id = ? AND is_active = ? AND id <> ?",
					m.UserID, m.MembershipTypeID, true, m.ID).
				Count(&others).Error
			if err != nil {
				return err
			}
			if others > 0 {
				return Conflict("already has an active membership of this type")
			}
			payment, err = s.activate(tx, m, m.MembershipType, today)
			return err
		}

		updates := map[string]any{}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive && m.IsActive
		} else if !m.IsActive {
			updates["is_active"] = false
		}
		start, end := time.Time(m.StartDate), time.Time(m.EndDate)
		if in.StartDate != nil {
			d, err := parseDate(*in.StartDate, "start_date")
			if err != nil {
				return err
			}
			start = d
			updates["start_date"] = datatypes.Date(d)
		}
		if in.EndDate != nil {
			d, err := parseDate(*in.EndDate, "end_date")
			if err != nil {
				return err
			}
			end = d
			updates["end_date"] = datatypes.Date(d)
		}
		if !end.After(start) {
			return FieldError("end_date", "end_date must be after start_date")
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.UserMembership{}).Where("id = ?", m.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.billing.Announce(EventPaymentCreated, payment)

	m, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*m)
	return &v, nil
}

// Delete removes a membership row; staff only. Payments raised for it are kept.
func (s *MembershipService) Delete(ctx context.Context, p Principal, id uint) error {
	if !CanAdministerMembership(p) {
		return PermissionDenied("only staff can delete memberships")
	}
	res := s.db.WithContext(ctx).Delete(&models.UserMembership{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFound("membership")
	}
	return nil
}

func (s *MembershipService) load(ctx context.Context, db *gorm.DB, id uint) (*models.UserMembership, error) {
	var m models.UserMembership
	if err := db.WithContext(ctx).Preload("MembershipType").First(&m, id).Error; err != nil {
		return nil, notFoundOr(err, "membership")
	}
	return &m, nil
}

// reconcile deactivates expired memberships in memory and persists the change.
func (s *MembershipService) reconcile(ctx context.Context, rows ...*models.UserMembership) error {
	today := s.today()
	var ids []uint
	for _, m := range rows {
		if ReconcileMembership(m, today) {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.UserMembership{}).
			Where("id IN ? AND is_active = ?", ids, true).
			Update("is_active", false).Error
	})
}

func parseDate(v, field string) (time.Time, error) {
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, FieldError(field, "Date has wrong format. Use YYYY-MM-DD.")
	}
	return models.Day(d), nil
}
