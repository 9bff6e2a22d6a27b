package services

import (
	"context"
	"testing"
	"time"

	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newGate(t *testing.T) (SubscriptionGate, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	return NewSubscriptionGate(repositories.NewSubscriptionRepository(db), cfg), db
}

func TestGate_NoSubscriptionMeansFreeTier(t *testing.T) {
	gate, db := newGate(t)
	alice := testutil.CreateUser(t, db)

	ents := gate.EntitlementsFor(context.Background(), alice)
	assert.Equal(t, "free", ents.Tier)
	assert.Equal(t, 1, ents.SuperLikesCap)
	assert.False(t, ents.UnmeteredSuperLikes)
}

func TestGate_PlanLimitsApplied(t *testing.T) {
	gate, db := newGate(t)
	alice := testutil.CreateUser(t, db)

	plan := models.SubscriptionPlan{
		Name:     "platinum",
		Price:    19.99,
		Duration: "monthly",
		Limits:   datatypes.JSON(`{"super_likes_cap": 5, "boosts_cap": 2, "unmetered_super_likes": false}`),
	}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID:    alice,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}).Error)

	ents := gate.EntitlementsFor(context.Background(), alice)
	assert.Equal(t, "platinum", ents.Tier)
	assert.Equal(t, 5, ents.SuperLikesCap)
	assert.Equal(t, 2, ents.BoostsCap)
}

// Подписка со status=active, но истекшим end_date, прав не дает
func TestGate_ExpiredSubscriptionFallsBack(t *testing.T) {
	gate, db := newGate(t)
	alice := testutil.CreateUser(t, db)

	plan := models.SubscriptionPlan{
		Name:     "gold",
		Price:    9.99,
		Duration: "monthly",
		Limits:   datatypes.JSON(`{"super_likes_cap": 3}`),
	}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID:    alice,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
	}).Error)

	ents := gate.EntitlementsFor(context.Background(), alice)
	assert.Equal(t, "free", ents.Tier)
	assert.Equal(t, 1, ents.SuperLikesCap)
}

// Битый jsonb лимитов схлопывается в free-tier, а не в панику или щедрость
func TestGate_MalformedLimitsFailClosed(t *testing.T) {
	gate, db := newGate(t)
	alice := testutil.CreateUser(t, db)

	plan := models.SubscriptionPlan{
		Name:     "broken",
		Price:    9.99,
		Duration: "monthly",
		Limits:   datatypes.JSON(`{not json`),
	}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID:    alice,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}).Error)

	ents := gate.EntitlementsFor(context.Background(), alice)
	assert.Equal(t, "free", ents.Tier)
	assert.Equal(t, 1, ents.SuperLikesCap)
}

func TestGate_UnmeteredSuperLikes(t *testing.T) {
	gate, db := newGate(t)
	alice := testutil.CreateUser(t, db)

	plan := models.SubscriptionPlan{
		Name:     "infinity",
		Price:    29.99,
		Duration: "monthly",
		Limits:   datatypes.JSON(`{"unmetered_super_likes": true}`),
	}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID:    alice,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}).Error)

	ents := gate.EntitlementsFor(context.Background(), alice)
	assert.True(t, ents.UnmeteredSuperLikes)
}
