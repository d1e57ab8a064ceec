package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBooking(t *testing.T) {
	now := fixedNow
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantField string
		wantMsg   string
	}{
		{"valid", now.Add(24 * time.Hour), now.Add(25 * time.Hour), "", ""},
		{"end equals start", now.Add(time.Hour), now.Add(time.Hour), "end_time", "end_time must be after start_time"},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), "end_time", "end_time must be after start_time"},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), "start_time", "start_time must be in the future"},
		{"start exactly now", now, now.Add(time.Hour), "start_time", "start_time must be in the future"},
		{"at the horizon", now.Add(BookingHorizon), now.Add(BookingHorizon + time.Hour), "", ""},
		{"beyond the horizon", now.Add(BookingHorizon + time.Minute), now.Add(BookingHorizon + time.Hour), "start_time", "booking horizon exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBooking(tt.start, tt.end, now)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			requireKind(t, err, KindValidation)
			appErr, ok := err.(*AppError)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, appErr.Fields[tt.wantField])
		})
	}
}

func TestValidateBookingReportsEndTimeFirst(t *testing.T) {
	// past start and inverted window: the window check wins
	err := ValidateBooking(fixedNow.Add(-time.Hour), fixedNow.Add(-2*time.Hour), fixedNow)
	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "end_time")
}
