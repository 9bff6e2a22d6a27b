package services

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/config"
	"amora_backend/internal/events"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services/dto"
	"amora_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Каталог SKU платежного леджера. Settle приходит уже после того,
// как платеж подтвержден провайдером; здесь только начисление.
var purchaseSKUs = map[string]struct {
	Resource models.ConsumableResource
	Units    int
}{
	"super_like_single": {models.ResourceSuperLike, 1},
	"super_like_pack_5": {models.ResourceSuperLike, 5},
	"boost_single":      {models.ResourceBoost, 1},
	"boost_pack_3":      {models.ResourceBoost, 3},
}

type ConsumableService interface {
	GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error)
	// TryConsumeSuperLike вызывается внутри транзакции свайпа. blocked=true
	// означает нулевой баланс: не ошибка, а PolicyBlock для вызывающего.
	// exhaustedNow=true - списание опустило баланс ровно до нуля.
	TryConsumeSuperLike(ctx context.Context, tx *gorm.DB, userID string, ents Entitlements) (blocked, exhaustedNow bool, err error)
	SettlePurchase(ctx context.Context, userID string, req dto.PurchaseSettleRequest) (*dto.PurchaseSettleResponse, error)
	ActivateBoost(ctx context.Context, userID string) (*dto.BoostActivateResponse, error)

	// Хуки фонового воркера
	SweepExpiredBoosts(ctx context.Context) (int64, error)
	SweepFreeTierResets(ctx context.Context) (int64, error)
}

type ConsumableServiceImpl struct {
	db       *gorm.DB
	repo     repositories.ConsumableRepository
	gate     SubscriptionGate
	notifier events.Notifier
	cfg      *config.Config
	now      func() time.Time
}

func NewConsumableService(
	db *gorm.DB,
	repo repositories.ConsumableRepository,
	gate SubscriptionGate,
	notifier events.Notifier,
	cfg *config.Config,
) ConsumableService {
	return &ConsumableServiceImpl{
		db:       db,
		repo:     repo,
		gate:     gate,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *ConsumableServiceImpl) resetInterval() time.Duration {
	return time.Duration(s.cfg.Swipes.SuperLikeResetHours) * time.Hour
}

// ensureFresh создает строку леджера при первом обращении и применяет
// ленивое периодическое пополнение. Новая строка получает lastReset в
// прошлом, так что первый же вызов доводит баланс до капа.
func (s *ConsumableServiceImpl) ensureFresh(ctx context.Context, tx *gorm.DB, userID string, ents Entitlements) error {
	now := s.now()
	interval := s.resetInterval()

	if err := s.repo.EnsureRow(ctx, tx, userID, now.Add(-interval), now); err != nil {
		return err
	}

	cutoff := now.Add(-interval)
	_, err := s.repo.ResetSuperLikes(ctx, tx, userID, ents.SuperLikesCap, cutoff, now)
	return err
}

func (s *ConsumableServiceImpl) GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error) {
	ents := s.gate.EntitlementsFor(ctx, userID)
	if err := s.ensureFresh(ctx, nil, userID, ents); err != nil {
		return nil, apperrors.InternalError(err)
	}

	row, err := s.repo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.BalanceResponse{
		SuperLikes: row.SuperLikesBalance,
		Boosts:     row.BoostsBalance,
		NextReset:  row.LastSuperLikeReset.Add(s.resetInterval()),
	}
	if row.BoostActiveUntil != nil && row.BoostActiveUntil.After(s.now()) {
		resp.BoostActiveUntil = row.BoostActiveUntil
	}
	return resp, nil
}

func (s *ConsumableServiceImpl) TryConsumeSuperLike(ctx context.Context, tx *gorm.DB, userID string, ents Entitlements) (bool, bool, error) {
	if err := s.ensureFresh(ctx, tx, userID, ents); err != nil {
		return false, false, err
	}

	remaining, err := s.repo.ConsumeGuarded(ctx, tx, userID, models.ResourceSuperLike, 1, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return true, false, nil
		}
		return false, false, err
	}
	return false, remaining == 0, nil
}

func (s *ConsumableServiceImpl) SettlePurchase(ctx context.Context, userID string, req dto.PurchaseSettleRequest) (*dto.PurchaseSettleResponse, error) {
	sku, ok := purchaseSKUs[req.SKU]
	if !ok {
		return nil, apperrors.ErrUnknownPurchaseSKU
	}

	ents := s.gate.EntitlementsFor(ctx, userID)
	credited := sku.Units * req.Quantity

	var resp *dto.PurchaseSettleResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureFresh(ctx, tx, userID, ents); err != nil {
			return err
		}
		if err := s.repo.Credit(ctx, tx, userID, sku.Resource, credited, s.now()); err != nil {
			return err
		}
		row, err := s.repo.GetByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		resp = &dto.PurchaseSettleResponse{
			Resource:   string(sku.Resource),
			Credited:   credited,
			NewBalance: row.Balance(sku.Resource),
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *ConsumableServiceImpl) ActivateBoost(ctx context.Context, userID string) (*dto.BoostActivateResponse, error) {
	ents := s.gate.EntitlementsFor(ctx, userID)
	now := s.now()

	var resp *dto.BoostActivateResponse
	var activated bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureFresh(ctx, tx, userID, ents); err != nil {
			return err
		}

		row, err := s.repo.GetByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Повторная активация при уже идущем окне не списывает буст
		if row.BoostActiveUntil != nil && row.BoostActiveUntil.After(now) {
			resp = &dto.BoostActivateResponse{
				ActiveUntil:    *row.BoostActiveUntil,
				BoostsLeft:     row.BoostsBalance,
				AlreadyRunning: true,
			}
			return nil
		}

		remaining, err := s.repo.ConsumeGuarded(ctx, tx, userID, models.ResourceBoost, 1, now)
		if err != nil {
			if errors.Is(err, repositories.ErrInsufficientBalance) {
				return apperrors.ErrNoBoostsLeft
			}
			return err
		}

		until := now.Add(time.Duration(s.cfg.Swipes.BoostMinutes) * time.Minute)
		if err := s.repo.SetBoostWindow(ctx, tx, userID, until, now); err != nil {
			return err
		}

		resp = &dto.BoostActivateResponse{ActiveUntil: until, BoostsLeft: remaining}
		activated = true
		return nil
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, apperrors.InternalError(err)
	}

	if activated {
		s.notifier.Notify(ctx, events.BoostActivatedEvent(userID, resp.ActiveUntil, now))
	}
	return resp, nil
}

func (s *ConsumableServiceImpl) SweepExpiredBoosts(ctx context.Context) (int64, error) {
	return s.repo.ExpireBoostWindows(ctx, s.now())
}

func (s *ConsumableServiceImpl) SweepFreeTierResets(ctx context.Context) (int64, error) {
	now := s.now()
	cutoff := now.Add(-s.resetInterval())
	return s.repo.BulkResetFreeTierSuperLikes(ctx, s.cfg.Swipes.FreeSuperLikesCap, cutoff, now)
}
