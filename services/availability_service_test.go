package services

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szymekpro/ztpai-mfs/models"
)

func TestBookedHours(t *testing.T) {
	f := newFixture(t)
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	svc := NewAvailabilityService(f.db, warsaw)
	svc.now = clock

	at := func(day, hour int) time.Time {
		return time.Date(2026, time.March, day, hour, 0, 0, 0, warsaw)
	}
	f.insertTraining(t, f.member, at(15, 14), models.TrainingScheduled)
	f.insertTraining(t, f.member, at(15, 9), models.TrainingCompleted)
	f.insertTraining(t, f.other, at(15, 11), models.TrainingCancelled)
	f.insertTraining(t, f.other, at(16, 0), models.TrainingScheduled)
	f.insertTraining(t, f.other, at(15, 0), models.TrainingScheduled)

	hours, err := svc.BookedHours(bg, f.trainer.ID, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"00:00", "09:00", "14:00"}, hours)

	empty, err := svc.BookedHours(bg, f.trainer.ID, "2026-03-17")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.BookedHours(bg, f.trainer.ID, "")
	requireKind(t, err, KindValidation)

	_, err = svc.BookedHours(bg, f.trainer.ID, "15-03-2026")
	requireKind(t, err, KindValidation)

	_, err = svc.BookedHours(bg, 999, "2026-03-15")
	requireKind(t, err, KindNotFound)
}

func TestBookedHoursRange(t *testing.T) {
	f := newFixture(t)
	svc := NewAvailabilityService(f.db, time.UTC)
	svc.now = clock

	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2026, month, day, hour, 30, 0, 0, time.UTC)
	}
	f.insertTraining(t, f.member, at(time.February, 28, 10), models.TrainingCompleted) // before window
	f.insertTraining(t, f.member, at(time.March, 1, 8), models.TrainingCompleted)
	f.insertTraining(t, f.member, at(time.March, 20, 17), models.TrainingScheduled)
	f.insertTraining(t, f.member, at(time.March, 20, 12), models.TrainingScheduled)
	f.insertTraining(t, f.member, at(time.April, 30, 9), models.TrainingCancelled)
	f.insertTraining(t, f.member, at(time.April, 30, 18), models.TrainingScheduled)
	f.insertTraining(t, f.member, at(time.May, 1, 9), models.TrainingScheduled) // after window

	got, err := svc.BookedHoursRange(bg, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"2026-03-01": {"08:30"},
		"2026-03-20": {"12:30", "17:30"},
		"2026-04-30": {"18:30"},
	}, got)
}

func TestBookingWindow(t *testing.T) {
	from, to := bookingWindow(time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC), to)
}
