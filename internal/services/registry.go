package services

import (
	"amora_backend/internal/config"
	"amora_backend/internal/events"
	"amora_backend/internal/ratelimit"
	"amora_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	Swipes        SwipeService
	Matches       MatchService
	Consumables   ConsumableService
	Subscriptions SubscriptionService
	Gate          SubscriptionGate
}

// NewServiceContainer собирает репозитории и сервисы поверх одного *gorm.DB
func NewServiceContainer(
	db *gorm.DB,
	limiter ratelimit.SwipeLimiter,
	notifier events.Notifier,
	cfg *config.Config,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	swipeRepo := repositories.NewSwipeRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	consumableRepo := repositories.NewConsumableRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)

	gate := NewSubscriptionGate(subscriptionRepo, cfg)
	consumables := NewConsumableService(db, consumableRepo, gate, notifier, cfg)
	matches := NewMatchService(matchRepo, swipeRepo, notifier)
	swipes := NewSwipeService(db, swipeRepo, userRepo, matches, consumables, gate, limiter, notifier)
	subscriptions := NewSubscriptionService(subscriptionRepo)

	return &ServiceContainer{
		Swipes:        swipes,
		Matches:       matches,
		Consumables:   consumables,
		Subscriptions: subscriptions,
		Gate:          gate,
	}
}
