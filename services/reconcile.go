package services

import (
	"time"

	"github.com/szymekpro/ztpai-mfs/models"
)

// ReconcileTraining marks a scheduled training completed once it has ended.
// It reports whether the record changed.
func ReconcileTraining(t *models.ScheduledTraining, now time.Time) bool {
	if t.Status == models.TrainingScheduled && t.EndTime.Before(now) {
		t.Status = models.TrainingCompleted
		return true
	}
	return false
}

// ReconcileMembership deactivates a membership whose end date has passed.
func ReconcileMembership(m *models.UserMembership, now time.Time) bool {
	if m.IsActive && m.Expired(now) {
		m.IsActive = false
		return true
	}
	return false
}
