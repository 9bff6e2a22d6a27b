package services

import (
	"context"
	"testing"
	"time"

	"amora_backend/internal/events"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services/dto"
	"amora_backend/internal/testutil"
	"amora_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type consumableStack struct {
	db       *gorm.DB
	repo     repositories.ConsumableRepository
	notifier *recordingNotifier
	svc      *ConsumableServiceImpl
}

func newConsumableStack(t *testing.T) *consumableStack {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	notifier := &recordingNotifier{}
	repo := repositories.NewConsumableRepository(db)
	gate := NewSubscriptionGate(repositories.NewSubscriptionRepository(db), cfg)
	svc := NewConsumableService(db, repo, gate, notifier, cfg).(*ConsumableServiceImpl)

	return &consumableStack{db: db, repo: repo, notifier: notifier, svc: svc}
}

// Первое обращение создает леджер и сразу доводит суперлайки до капа
func TestGetBalance_SeedsLedgerAtCap(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)

	balance, err := s.svc.GetBalance(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.SuperLikes)
	assert.Equal(t, 0, balance.Boosts)
	assert.Nil(t, balance.BoostActiveUntil)
	assert.True(t, balance.NextReset.After(time.Now()))
}

// Повторный reset внутри интервала - no-op (CAS по last_super_like_reset)
func TestReset_IdempotentWithinInterval(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	_, err := s.svc.GetBalance(ctx, alice)
	require.NoError(t, err)

	// Списываем суперлайк напрямую
	_, err = s.repo.ConsumeGuarded(ctx, nil, alice, models.ResourceSuperLike, 1, time.Now())
	require.NoError(t, err)

	// Немедленный повторный GetBalance не должен пополнить баланс
	balance, err := s.svc.GetBalance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.SuperLikes)

	// Сдвигаем последний reset в прошлое - следующий проход пополняет
	cutoff := time.Now().Add(-25 * time.Hour)
	require.NoError(t, s.db.Model(&models.Consumable{}).
		Where("user_id = ?", alice).
		Update("last_super_like_reset", cutoff).Error)

	balance, err = s.svc.GetBalance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.SuperLikes)
}

func TestConsumeGuarded_NeverGoesNegative(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	_, err := s.svc.GetBalance(ctx, alice)
	require.NoError(t, err)

	remaining, err := s.repo.ConsumeGuarded(ctx, nil, alice, models.ResourceSuperLike, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = s.repo.ConsumeGuarded(ctx, nil, alice, models.ResourceSuperLike, 1, time.Now())
	assert.ErrorIs(t, err, repositories.ErrInsufficientBalance)

	var row models.Consumable
	require.NoError(t, s.db.First(&row, "user_id = ?", alice).Error)
	assert.Equal(t, 0, row.SuperLikesBalance)
}

// Остаток приходит из RETURNING того же UPDATE, а не из отдельного чтения
func TestConsumeGuarded_ReturnsDecrementedBalance(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	_, err := s.svc.GetBalance(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, s.repo.Credit(ctx, nil, alice, models.ResourceSuperLike, 5, time.Now()))

	for want := 5; want >= 0; want-- {
		remaining, err := s.repo.ConsumeGuarded(ctx, nil, alice, models.ResourceSuperLike, 1, time.Now())
		require.NoError(t, err)
		assert.Equal(t, want, remaining)
	}

	_, err = s.repo.ConsumeGuarded(ctx, nil, alice, models.ResourceSuperLike, 1, time.Now())
	assert.ErrorIs(t, err, repositories.ErrInsufficientBalance)
}

func TestSettlePurchase_CreditsBalance(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	resp, err := s.svc.SettlePurchase(ctx, alice, dto.PurchaseSettleRequest{
		SKU:      "super_like_pack_5",
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ResourceSuperLike), resp.Resource)
	assert.Equal(t, 10, resp.Credited)
	// 1 от посева free-tier + 10 купленных
	assert.Equal(t, 11, resp.NewBalance)
}

func TestSettlePurchase_UnknownSKU(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)

	_, err := s.svc.SettlePurchase(context.Background(), alice, dto.PurchaseSettleRequest{
		SKU:      "golden_ticket",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrUnknownPurchaseSKU)
}

func TestActivateBoost_FullCycle(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	// Без бустов - отказ
	_, err := s.svc.ActivateBoost(ctx, alice)
	assert.ErrorIs(t, err, apperrors.ErrNoBoostsLeft)

	_, err = s.svc.SettlePurchase(ctx, alice, dto.PurchaseSettleRequest{
		SKU:      "boost_single",
		Quantity: 1,
	})
	require.NoError(t, err)

	resp, err := s.svc.ActivateBoost(ctx, alice)
	require.NoError(t, err)
	assert.False(t, resp.AlreadyRunning)
	assert.Equal(t, 0, resp.BoostsLeft)
	assert.True(t, resp.ActiveUntil.After(time.Now()))
	assert.Equal(t, 1, s.notifier.countByName(events.EventBoostActivated))

	// Повторная активация при идущем окне не списывает и не эмитит событие
	again, err := s.svc.ActivateBoost(ctx, alice)
	require.NoError(t, err)
	assert.True(t, again.AlreadyRunning)
	assert.Equal(t, 0, again.BoostsLeft)
	assert.Equal(t, 1, s.notifier.countByName(events.EventBoostActivated))
}

func TestSweepExpiredBoosts(t *testing.T) {
	s := newConsumableStack(t)
	alice := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	_, err := s.svc.SettlePurchase(ctx, alice, dto.PurchaseSettleRequest{
		SKU:      "boost_single",
		Quantity: 1,
	})
	require.NoError(t, err)
	_, err = s.svc.ActivateBoost(ctx, alice)
	require.NoError(t, err)

	// Окно еще идет - sweep ничего не трогает
	n, err := s.svc.SweepExpiredBoosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, s.db.Model(&models.Consumable{}).
		Where("user_id = ?", alice).
		Update("boost_active_until", expired).Error)

	n, err = s.svc.SweepExpiredBoosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Повторный sweep идемпотентен
	n, err = s.svc.SweepExpiredBoosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSweepFreeTierResets_SkipsSubscribers(t *testing.T) {
	s := newConsumableStack(t)
	free := testutil.CreateUser(t, s.db)
	premium := testutil.CreateUser(t, s.db)
	ctx := context.Background()

	_, err := s.svc.GetBalance(ctx, free)
	require.NoError(t, err)
	_, err = s.svc.GetBalance(ctx, premium)
	require.NoError(t, err)

	// Оба просрочены по reset, но premium держит активную подписку
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, s.db.Model(&models.Consumable{}).
		Where("user_id IN ?", []string{free, premium}).
		Updates(map[string]interface{}{
			"last_super_like_reset": stale,
			"super_likes_balance":   0,
		}).Error)

	plan := models.SubscriptionPlan{Name: "gold", Price: 9.99, Duration: "monthly"}
	require.NoError(t, s.db.Create(&plan).Error)
	sub := models.UserSubscription{
		UserID:    premium,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, s.db.Create(&sub).Error)

	n, err := s.svc.SweepFreeTierResets(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var freeRow, premiumRow models.Consumable
	require.NoError(t, s.db.First(&freeRow, "user_id = ?", free).Error)
	require.NoError(t, s.db.First(&premiumRow, "user_id = ?", premium).Error)
	assert.Equal(t, 1, freeRow.SuperLikesBalance)
	assert.Equal(t, 0, premiumRow.SuperLikesBalance, "подписчиков пополняет ленивый путь по капу плана")
}
