package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szymekpro/ztpai-mfs/config"
	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	users  *services.UserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	hub := services.NewRealtimeHub()
	billing := services.NewBillingLinker(hub)
	users := services.NewUserService(db, services.NoopNotifier{})
	r := SetupRouter(Deps{
		Auth:            services.NewAuthService(users, services.TokenConfig{Secret: []byte("routes-test"), AccessTTL: time.Hour, RefreshTTL: 16 * time.Hour}),
		Users:           users,
		Gyms:            services.NewGymService(db, nil),
		Trainers:        services.NewTrainerDirectory(db, nil),
		Availability:    services.NewAvailabilityService(db, time.UTC),
		MembershipTypes: services.NewMembershipTypeService(db, nil),
		Memberships:     services.NewMembershipService(db, billing, time.UTC),
		Trainings:       services.NewTrainingService(db, billing),
		Payments:        services.NewPaymentService(db, billing),
		Hub:             hub,
	})
	return &testAPI{t: t, db: db, router: r, users: users}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/token", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var pair services.TokenPair
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair.Access
}

func (a *testAPI) staffToken() string {
	a.t.Helper()
	_, err := a.users.CreateWithRole(context.Background(), "staff@fitzone.pl", "staff-pass", models.RoleEmployee)
	require.NoError(a.t, err)
	return a.login("staff@fitzone.pl", "staff-pass")
}

func (a *testAPI) memberToken(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/user/register", "", gin.H{
		"email": email, "password": "member-pass", "first_name": "Jan", "last_name": "Kowalski",
		"phone": "600700800", "street": "Dluga", "street_number": "12", "city": "Warsaw", "postal_code": "00-001",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(email, "member-pass")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type idOnly struct {
	ID uint `json:"id"`
}

// catalog creates FitZone/Warsaw with Anna Nowak offering Strength Training at 150.00.
func (a *testAPI) catalog(staff string) (gymID, trainerID, serviceID uint) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/gyms", staff, gin.H{"name": "FitZone", "city": "Warsaw", "address": "ul. Prosta 20"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	gymID = decode[idOnly](a.t, w).ID

	w = a.do(http.MethodPost, "/trainers", staff, gin.H{"first_name": "Anna", "last_name": "Nowak", "gym": gymID})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	trainerID = decode[idOnly](a.t, w).ID

	w = a.do(http.MethodPost, "/trainer-services", staff, gin.H{"name": "Strength Training", "price": 150.00})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	serviceID = decode[idOnly](a.t, w).ID
	return gymID, trainerID, serviceID
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/user/register", "", gin.H{
		"email": "x@example.com", "password": "member-pass", "first_name": "Jan1", "last_name": "Kowalski",
		"phone": "12345", "street": "Dluga", "street_number": "12", "city": "Warsaw", "postal_code": "00001",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, "validation_error", body.Code)
	assert.Equal(t, "Phone number must contain 9 digits", body.Fields["phone"])
	assert.Equal(t, "Postal code must be in format XX-XXX", body.Fields["postal_code"])
	assert.Contains(t, body.Fields, "first_name")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/trainings", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/trainings", "garbage", nil).Code)
}

func TestBookTrainingCreatesPayment(t *testing.T) {
	api := newTestAPI(t)
	staff := api.staffToken()
	_, trainerID, serviceID := api.catalog(staff)
	member := api.memberToken("jan@example.com")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 10, 0, 0, 0, time.UTC)
	w := api.do(http.MethodPost, "/trainings", member, gin.H{
		"trainer_id": trainerID, "service_type_id": serviceID,
		"start_time": start.Format(time.RFC3339), "end_time": start.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	training := decode[idOnly](t, w)

	w = api.do(http.MethodGet, "/payments", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	payments := decode[[]models.Payment](t, w)
	require.Len(t, payments, 1)
	assert.Equal(t, 150.00, payments[0].Amount)
	assert.Equal(t, models.PaymentPending, payments[0].Status)
	assert.Equal(t, models.SubjectTraining, payments[0].SubjectType)
	assert.Equal(t, training.ID, payments[0].SubjectID)

	w = api.do(http.MethodGet, fmt.Sprintf("/payments/%d", payments[0].ID), member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Subject struct {
			ID uint `json:"id"`
		} `json:"subject"`
	}](t, w)
	assert.Equal(t, training.ID, detail.Subject.ID)

	w = api.do(http.MethodGet, fmt.Sprintf("/trainers/%d/booked-hours?date=%s", trainerID, start.Format("2006-01-02")), member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"booked_hours":["10:00"]}`, w.Body.String())

	w = api.do(http.MethodGet, fmt.Sprintf("/trainers/%d/booked-hours?date=tomorrow", trainerID), member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, fmt.Sprintf("/trainers/%d/booked-hours", trainerID), member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookTrainingInPastIsRejected(t *testing.T) {
	api := newTestAPI(t)
	staff := api.staffToken()
	_, trainerID, serviceID := api.catalog(staff)
	member := api.memberToken("jan@example.com")

	start := time.Now().UTC().Add(-2 * time.Hour)
	w := api.do(http.MethodPost, "/trainings", member, gin.H{
		"trainer_id": trainerID, "service_type_id": serviceID,
		"start_time": start.Format(time.RFC3339), "end_time": start.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_time must be in the future")

	var n int64
	require.NoError(t, api.db.Model(&models.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMembershipPurchaseConflict(t *testing.T) {
	api := newTestAPI(t)
	staff := api.staffToken()
	member := api.memberToken("jan@example.com")

	w := api.do(http.MethodPost, "/membership-types", staff, gin.H{"name": "Standard", "duration_days": 30, "price": 99.99})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	typeID := decode[idOnly](t, w).ID

	w = api.do(http.MethodPost, "/user-memberships", member, gin.H{"membership_type_id": typeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		EndDate  time.Time `json:"end_date"`
		IsActive bool      `json:"is_active"`
	}](t, w)
	assert.True(t, created.IsActive)
	today := models.Day(time.Now())
	assert.Equal(t, today.AddDate(0, 0, 30).Format("2006-01-02"), created.EndDate.Format("2006-01-02"))

	w = api.do(http.MethodPost, "/user-memberships", member, gin.H{"membership_type_id": typeID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decode[gin.H](t, w)["code"])

	var memberships, payments int64
	require.NoError(t, api.db.Model(&models.UserMembership{}).Count(&memberships).Error)
	require.NoError(t, api.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 1, memberships)
	assert.EqualValues(t, 1, payments)

	w = api.do(http.MethodGet, "/user-memberships/active", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"has_membership":true}`, w.Body.String())
}

func TestMemberPaymentPatch(t *testing.T) {
	api := newTestAPI(t)
	staff := api.staffToken()
	jan := api.memberToken("jan@example.com")
	ola := api.memberToken("ola@example.com")

	w := api.do(http.MethodPost, "/membership-types", staff, gin.H{"name": "Standard", "duration_days": 30, "price": 99.99})
	require.Equal(t, http.StatusCreated, w.Code)
	typeID := decode[idOnly](t, w).ID
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/user-memberships", jan, gin.H{"membership_type_id": typeID}).Code)

	var pay models.Payment
	require.NoError(t, api.db.First(&pay).Error)
	path := fmt.Sprintf("/payments/%d", pay.ID)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, path, ola, gin.H{"status": "paid"}).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, path, jan, gin.H{"status": "paid", "amount": 1}).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, ola, nil).Code)

	w = api.do(http.MethodPatch, path, jan, gin.H{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.PaymentPaid, decode[models.Payment](t, w).Status)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, path, jan, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, staff, nil).Code)
}

func TestCatalogWritesAreStaffOnly(t *testing.T) {
	api := newTestAPI(t)
	member := api.memberToken("jan@example.com")

	w := api.do(http.MethodPost, "/gyms", member, gin.H{"name": "FitZone", "city": "Warsaw", "address": "ul. Prosta 20"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/gyms/1/photo", member, gin.H{"image_base64": "data:image/png;base64,aGVsbG8="})
	assert.Equal(t, http.StatusForbidden, w.Code)

	staff := api.staffToken()
	gymID, _, _ := api.catalog(staff)
	w = api.do(http.MethodPost, fmt.Sprintf("/gyms/%d/photo", gymID), staff, gin.H{"image_base64": "data:image/png;base64,aGVsbG8="})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = api.do(http.MethodGet, "/gyms/cities", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Warsaw"]`, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/gyms", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
