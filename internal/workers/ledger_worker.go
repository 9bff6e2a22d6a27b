package workers

import (
	"context"
	"time"

	"amora_backend/internal/config"
	"amora_backend/internal/logger"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services"
)

// LedgerWorker - фоновая уборка: истекшие подписки, закончившиеся окна
// бустов и периодическое пополнение суперлайков free-tier. Все операции
// идемпотентны, пропущенный тик навёрстывается следующим.
type LedgerWorker struct {
	consumables services.ConsumableService
	subRepo     repositories.SubscriptionRepository
	cfg         *config.Config
}

func NewLedgerWorker(
	consumables services.ConsumableService,
	subRepo repositories.SubscriptionRepository,
	cfg *config.Config,
) *LedgerWorker {
	return &LedgerWorker{
		consumables: consumables,
		subRepo:     subRepo,
		cfg:         cfg,
	}
}

// Start запускает периодический sweep до отмены контекста
func (w *LedgerWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *LedgerWorker) run(ctx context.Context) {
	interval := time.Duration(w.cfg.Workers.SweepMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("ledger worker started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("ledger worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход всех уборочных задач
func (w *LedgerWorker) Sweep(ctx context.Context) {
	if n, err := w.subRepo.ExpireOverdue(ctx, time.Now()); err != nil {
		logger.WorkerLog("ledger", "expire_subscriptions", err)
	} else if n > 0 {
		logger.Info("subscriptions expired", "worker", "ledger", "count", n)
	}

	if n, err := w.consumables.SweepExpiredBoosts(ctx); err != nil {
		logger.WorkerLog("ledger", "expire_boosts", err)
	} else if n > 0 {
		logger.Info("boost windows closed", "worker", "ledger", "count", n)
	}

	if n, err := w.consumables.SweepFreeTierResets(ctx); err != nil {
		logger.WorkerLog("ledger", "reset_free_tier_super_likes", err)
	} else if n > 0 {
		logger.Info("super like balances reset", "worker", "ledger", "count", n)
	}
}
