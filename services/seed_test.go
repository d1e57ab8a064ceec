package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szymekpro/ztpai-mfs/models"
)

const seedYAML = `
admins:
  - email: Boss@FitZone.pl
    password: change-me-now
services:
  - name: Personal training
    price: 150
membership_types:
  - name: Monthly
    duration_days: 30
    price: 129.99
gyms:
  - name: FitZone Centrum
    city: Krakow
    address: ul. Dluga 12
    trainers:
      - first_name: Anna
        last_name: Nowak
        services: [Personal training]
        availability:
          - { weekday: Monday, start: "08:00", end: "16:00" }
`

func TestApplySeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 2; i++ {
		seed, err := LoadSeed(strings.NewReader(seedYAML))
		require.NoError(t, err)
		require.NoError(t, ApplySeed(bg, db, seed))
	}

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&models.User{}))
	assert.EqualValues(t, 1, count(&models.Gym{}))
	assert.EqualValues(t, 1, count(&models.Trainer{}))
	assert.EqualValues(t, 1, count(&models.TrainerService{}))
	assert.EqualValues(t, 1, count(&models.TrainerAvailability{}))
	assert.EqualValues(t, 1, count(&models.MembershipType{}))

	var admin models.User
	require.NoError(t, db.First(&admin).Error)
	assert.Equal(t, "boss@fitzone.pl", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsSuperuser)

	var trainer models.Trainer
	require.NoError(t, db.Preload("Services").First(&trainer).Error)
	require.Len(t, trainer.Services, 1)
	assert.Equal(t, "Personal training", trainer.Services[0].Name)
}

func TestLoadSeedRejectsUnknownFields(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("gymz: []\n"))
	assert.Error(t, err)
}

func TestApplySeedRejectsUnknownService(t *testing.T) {
	db := newTestDB(t)
	seed, err := LoadSeed(strings.NewReader(`
gyms:
  - name: G
    city: C
    address: Street 1
    trainers:
      - first_name: A
        last_name: B
        services: [Missing]
`))
	require.NoError(t, err)
	assert.Error(t, ApplySeed(bg, db, seed))

	var n int64
	require.NoError(t, db.Model(&models.Gym{}).Count(&n).Error)
	assert.Zero(t, n, "failed seed rolls back")
}
