package service

import (
	"testing"

	"fitpact/fitness-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLimitsForTier(t *testing.T) {
	assert.Equal(t, freeTierMaxExercises, limitsForTier(domain.TierFree).MaxExercises)
	assert.Equal(t, premiumTierMaxExercises, limitsForTier(domain.TierPremium).MaxExercises)
	// Unknown tiers get the conservative free limit.
	assert.Equal(t, freeTierMaxExercises, limitsForTier("trial").MaxExercises)
}

func TestSettingsFromProfile(t *testing.T) {
	short := settingsFromProfile(domain.UserProfile{AvailableTime: "under_15min"})
	assert.Equal(t, 15, short.TargetDurationMinutes)
	assert.Equal(t, 3, short.ExerciseCount)

	long := settingsFromProfile(domain.UserProfile{AvailableTime: "60min_plus"})
	assert.Equal(t, 60, long.TargetDurationMinutes)
	assert.Equal(t, 6, long.ExerciseCount)

	// Unanswered time defaults to a mid-length session.
	def := settingsFromProfile(domain.UserProfile{})
	assert.Equal(t, 40, def.TargetDurationMinutes)
	assert.Equal(t, 5, def.ExerciseCount)
}

func TestEquipmentForLocation(t *testing.T) {
	assert.Contains(t, equipmentForLocation(domain.LocationGym), "barbell")
	assert.Equal(t, []string{"body weight"}, equipmentForLocation(domain.LocationOutdoor))
	// Home and unset both assume a minimal home kit.
	assert.Contains(t, equipmentForLocation(domain.LocationHome), "band")
	assert.Contains(t, equipmentForLocation(""), "body weight")
}
