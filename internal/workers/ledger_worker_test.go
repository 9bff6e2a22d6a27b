package workers

import (
	"context"
	"testing"
	"time"

	"amora_backend/internal/events"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services"
	"amora_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerWorker_SweepIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	ctx := context.Background()

	consumableRepo := repositories.NewConsumableRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	gate := services.NewSubscriptionGate(subRepo, cfg)
	eventRepo := repositories.NewEventRepository(db)
	notifier := events.NewOutboxNotifier(eventRepo)
	consumables := services.NewConsumableService(db, consumableRepo, gate, notifier, cfg)

	worker := NewLedgerWorker(consumables, subRepo, cfg)

	alice := testutil.CreateUser(t, db)
	plan := models.SubscriptionPlan{Name: "gold", Price: 9.99, Duration: "monthly"}
	require.NoError(t, db.Create(&plan).Error)

	// Просроченная активная подписка и истекшее окно буста
	require.NoError(t, db.Create(&models.UserSubscription{
		UserID:    alice,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-60 * 24 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
	}).Error)

	expired := time.Now().Add(-time.Minute)
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Create(&models.Consumable{
		UserID:             alice,
		SuperLikesBalance:  0,
		LastSuperLikeReset: stale,
		BoostActiveUntil:   &expired,
	}).Error)

	worker.Sweep(ctx)

	var sub models.UserSubscription
	require.NoError(t, db.First(&sub, "user_id = ?", alice).Error)
	assert.Equal(t, models.SubscriptionStatusExpired, sub.Status)

	var row models.Consumable
	require.NoError(t, db.First(&row, "user_id = ?", alice).Error)
	assert.Nil(t, row.BoostActiveUntil)
	// Подписка уже истекла, поэтому free-tier reset пополняет до капа
	assert.Equal(t, cfg.Swipes.FreeSuperLikesCap, row.SuperLikesBalance)
	firstReset := row.LastSuperLikeReset

	// Повторный проход ничего не меняет
	worker.Sweep(ctx)
	require.NoError(t, db.First(&row, "user_id = ?", alice).Error)
	assert.Equal(t, cfg.Swipes.FreeSuperLikesCap, row.SuperLikesBalance)
	assert.True(t, row.LastSuperLikeReset.Equal(firstReset))
}
