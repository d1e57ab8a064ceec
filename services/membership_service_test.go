package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szymekpro/ztpai-mfs/models"
	"gorm.io/datatypes"
)

func newMembershipService(f *fixture, pub PaymentPublisher) *MembershipService {
	svc := NewMembershipService(f.db, NewBillingLinker(pub), time.UTC)
	svc.now = clock
	return svc
}

func TestPurchaseMembership(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := newMembershipService(f, pub)

	m, err := svc.Purchase(bg, asPrincipal(f.member), PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	require.NoError(t, err)
	assert.True(t, m.IsActive)
	assert.False(t, m.Expired)
	today := models.Day(fixedNow)
	assert.True(t, time.Time(m.StartDate).Equal(today))
	assert.True(t, time.Time(m.EndDate).Equal(today.AddDate(0, 0, 30)))

	var pay models.Payment
	require.NoError(t, f.db.First(&pay).Error)
	assert.Equal(t, 129.99, pay.Amount)
	assert.Equal(t, models.SubjectMembership, pay.SubjectType)
	assert.Equal(t, m.ID, pay.SubjectID)
	assert.Equal(t, "Payment for membership: Monthly", pay.Description)
	assert.Len(t, pub.Events(), 1)
}

func TestPurchaseMembershipConflictLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	svc := newMembershipService(f, nil)
	member := asPrincipal(f.member)

	_, err := svc.Purchase(bg, member, PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	require.NoError(t, err)

	_, err = svc.Purchase(bg, member, PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	requireKind(t, err, KindConflict)
	assert.EqualValues(t, 1, f.countRows(t, &models.UserMembership{}))
	assert.EqualValues(t, 1, f.countRows(t, &models.Payment{}))
}

func TestPurchaseMembershipUnknownType(t *testing.T) {
	f := newFixture(t)
	svc := newMembershipService(f, nil)

	_, err := svc.Purchase(bg, asPrincipal(f.member), PurchaseMembershipInput{MembershipTypeID: 404})
	requireKind(t, err, KindValidation)
	assert.Zero(t, f.countRows(t, &models.Payment{}))
}

func TestPurchaseReusesExpiredRow(t *testing.T) {
	f := newFixture(t)
	svc := newMembershipService(f, nil)
	today := models.Day(fixedNow)

	old := models.UserMembership{
		UserID:           f.member.ID,
		MembershipTypeID: f.monthly.ID,
		StartDate:        datatypes.Date(today.AddDate(0, 0, -31)),
		EndDate:          datatypes.Date(today.AddDate(0, 0, -1)),
		IsActive:         true,
	}
	require.NoError(t, f.db.Create(&old).Error)

	m, err := svc.Purchase(bg, asPrincipal(f.member), PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	require.NoError(t, err)
	assert.Equal(t, old.ID, m.ID, "expired row is reused")
	assert.True(t, m.IsActive)
	assert.True(t, time.Time(m.EndDate).Equal(today.AddDate(0, 0, 30)))
	assert.EqualValues(t, 1, f.countRows(t, &models.UserMembership{}))

	var payments []models.Payment
	require.NoError(t, f.db.Where("subject_type = ? AND subject_id = ?", models.SubjectMembership, old.ID).Find(&payments).Error)
	assert.Len(t, payments, 1)
}

func TestListMembershipsReconcilesExpiry(t *testing.T) {
	f := newFixture(t)
	svc := newMembershipService(f, nil)
	today := models.Day(fixedNow)

	expired := models.UserMembership{
		UserID:           f.member.ID,
		MembershipTypeID: f.monthly.ID,
		StartDate:        datatypes.Date(today.AddDate(0, 0, -40)),
		EndDate:          datatypes.Date(today.AddDate(0, 0, -10)),
		IsActive:         true,
	}
	require.NoError(t, f.db.Create(&expired).Error)

	has, err := svc.HasActive(bg, asPrincipal(f.member))
	require.NoError(t, err)
	assert.False(t, has)

	views, err := svc.List(bg, asPrincipal(f.member))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsActive)
	assert.True(t, views[0].Expired)

	var stored models.UserMembership
	require.NoError(t, f.db.First(&stored, expired.ID).Error)
	assert.False(t, stored.IsActive)

	others, err := svc.List(bg, asPrincipal(f.other))
	require.NoError(t, err)
	assert.Empty(t, others)

	all, err := svc.List(bg, asPrincipal(f.admin))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdminPatchMembership(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := newMembershipService(f, pub)
	member := asPrincipal(f.member)
	admin := asPrincipal(f.admin)

	m, err := svc.Purchase(bg, member, PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	require.NoError(t, err)

	off := false
	_, err = svc.AdminPatch(bg, member, m.ID, MembershipPatch{IsActive: &off})
	requireKind(t, err, KindPermissionDenied)

	got, err := svc.AdminPatch(bg, admin, m.ID, MembershipPatch{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.EqualValues(t, 1, f.countRows(t, &models.Payment{}))

	on := true
	got, err = svc.AdminPatch(bg, admin, m.ID, MembershipPatch{IsActive: &on})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, m.ID, got.ID)
	assert.EqualValues(t, 2, f.countRows(t, &models.Payment{}), "reactivation bills again")
	assert.Len(t, pub.Events(), 2)

	bad := "2026-01-01"
	_, err = svc.AdminPatch(bg, admin, m.ID, MembershipPatch{EndDate: &bad})
	requireKind(t, err, KindValidation)

	garbage := "10/03/2026"
	_, err = svc.AdminPatch(bg, admin, m.ID, MembershipPatch{StartDate: &garbage})
	requireKind(t, err, KindValidation)
}

func TestDeleteMembershipIsStaffOnly(t *testing.T) {
	f := newFixture(t)
	svc := newMembershipService(f, nil)

	m, err := svc.Purchase(bg, asPrincipal(f.member), PurchaseMembershipInput{MembershipTypeID: f.monthly.ID})
	require.NoError(t, err)

	requireKind(t, svc.Delete(bg, asPrincipal(f.member), m.ID), KindPermissionDenied)
	require.NoError(t, svc.Delete(bg, asPrincipal(f.admin), m.ID))
	requireKind(t, svc.Delete(bg, asPrincipal(f.admin), m.ID), KindNotFound)
	assert.EqualValues(t, 1, f.countRows(t, &models.Payment{}), "payment outlives the membership")
}
