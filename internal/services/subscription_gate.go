package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"amora_backend/internal/config"
	"amora_backend/internal/logger"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
)

// Entitlements - разрешения пользователя на момент запроса,
// уже сведенные из плана подписки и free-tier дефолтов.
type Entitlements struct {
	SuperLikesCap       int
	BoostsCap           int
	UnmeteredSuperLikes bool
	Tier                string
}

// ResourceCap - потолок ресурса, используется периодическим пополнением
func (e Entitlements) ResourceCap(resource models.ConsumableResource) int {
	switch resource {
	case models.ResourceSuperLike:
		return e.SuperLikesCap
	case models.ResourceBoost:
		return e.BoostsCap
	default:
		return 0
	}
}

// IsMetered - false означает, что ресурс не тарифицируется вовсе:
// вызывающий обязан пропустить списание, а не списать и проигнорировать
func (e Entitlements) IsMetered(resource models.ConsumableResource) bool {
	if resource == models.ResourceSuperLike && e.UnmeteredSuperLikes {
		return false
	}
	return true
}

// SubscriptionGate переводит состояние подписки в действующие лимиты.
// Любой сбой чтения подписки схлопывается в free-tier (fail-closed):
// лучше недодать премиум-фичу, чем раздать ее бесплатно при деградации БД.
type SubscriptionGate interface {
	EntitlementsFor(ctx context.Context, userID string) Entitlements
}

type SubscriptionGateImpl struct {
	subRepo repositories.SubscriptionRepository
	cfg     *config.Config
	now     func() time.Time
}

func NewSubscriptionGate(subRepo repositories.SubscriptionRepository, cfg *config.Config) SubscriptionGate {
	return &SubscriptionGateImpl{
		subRepo: subRepo,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (g *SubscriptionGateImpl) freeTier() Entitlements {
	return Entitlements{
		SuperLikesCap:       g.cfg.Swipes.FreeSuperLikesCap,
		BoostsCap:           g.cfg.Swipes.FreeBoostsCap,
		UnmeteredSuperLikes: false,
		Tier:                "free",
	}
}

func (g *SubscriptionGateImpl) EntitlementsFor(ctx context.Context, userID string) Entitlements {
	sub, err := g.subRepo.FindActiveByUserID(ctx, userID, g.now())
	if err != nil {
		if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
			logger.CtxWarn(ctx, "subscription lookup failed, falling back to free tier",
				"user_id", userID, "error", err)
		}
		return g.freeTier()
	}

	var limits models.PlanLimits
	if len(sub.Plan.Limits) > 0 {
		if err := json.Unmarshal(sub.Plan.Limits, &limits); err != nil {
			logger.CtxWarn(ctx, "unparsable plan limits, falling back to free tier",
				"plan_id", sub.PlanID, "error", err)
			return g.freeTier()
		}
	}

	ents := g.freeTier()
	ents.Tier = sub.Plan.Name
	if limits.SuperLikesCap > 0 {
		ents.SuperLikesCap = limits.SuperLikesCap
	}
	if limits.BoostsCap > 0 {
		ents.BoostsCap = limits.BoostsCap
	}
	ents.UnmeteredSuperLikes = limits.UnmeteredSuperLikes
	return ents
}
