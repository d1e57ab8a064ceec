package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/szymekpro/ztpai-mfs/config"
	"github.com/szymekpro/ztpai-mfs/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is the clock used throughout the service tests.
var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	db      *gorm.DB
	member  models.User
	other   models.User
	admin   models.User
	gym     models.Gym
	trainer models.Trainer
	service models.TrainerService
	monthly models.MembershipType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db}

	mkUser := func(email string, role models.Role) models.User {
		u := models.User{Email: email, Password: "x", FirstName: "Test", Role: role, IsActive: true}
		u.ApplyRoleFlags()
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	f.member = mkUser("member@example.com", models.RoleMember)
	f.other = mkUser("other@example.com", models.RoleMember)
	f.admin = mkUser("admin@example.com", models.RoleAdmin)

	f.gym = models.Gym{Name: "FitZone", City: "Krakow", Address: "ul. Dluga 12"}
	require.NoError(t, db.Create(&f.gym).Error)
	f.service = models.TrainerService{Name: "Personal training", Price: 150}
	require.NoError(t, db.Create(&f.service).Error)
	f.trainer = models.Trainer{FirstName: "Anna", LastName: "Nowak", GymID: f.gym.ID}
	require.NoError(t, db.Create(&f.trainer).Error)
	f.monthly = models.MembershipType{Name: "Monthly", DurationDays: 30, Price: 129.99}
	require.NoError(t, db.Create(&f.monthly).Error)
	return f
}

func asPrincipal(u models.User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

// insertTraining writes a training row directly, bypassing booking validation.
func (f *fixture) insertTraining(t *testing.T, user models.User, start time.Time, status models.TrainingStatus) models.ScheduledTraining {
	t.Helper()
	tr := models.ScheduledTraining{
		UserID:        user.ID,
		TrainerID:     f.trainer.ID,
		GymID:         f.gym.ID,
		ServiceTypeID: f.service.ID,
		StartTime:     start.UTC(),
		EndTime:       start.Add(time.Hour).UTC(),
		Status:        status,
	}
	require.NoError(t, f.db.Create(&tr).Error)
	return tr
}

type recordedEvent struct {
	UserID uint
	Kind   string
	Amount float64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingPublisher) PublishPayment(userID uint, kind string, p *models.Payment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Kind: kind, Amount: p.Amount})
}

func (r *recordingPublisher) Events() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func requireKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok, fmt.Sprintf("unexpected error type: %v", err))
	require.Equal(t, want, kind, err.Error())
}

var bg = context.Background()
