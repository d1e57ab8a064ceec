package services

import "time"

// BookingHorizon is how far ahead a training may start.
const BookingHorizon = 60 * 24 * time.Hour

// ValidateBooking checks a training's time window against now, stopping at the first failure.
func ValidateBooking(start, end, now time.Time) error {
	if !end.After(start) {
		return FieldError("end_time", "end_time must be after start_time")
	}
	if !start.After(now) {
		return FieldError("start_time", "start_time must be in the future")
	}
	if start.After(now.Add(BookingHorizon)) {
		return FieldError("start_time", "booking horizon exceeded")
	}
	return nil
}
