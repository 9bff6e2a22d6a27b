package events

import (
	"context"
	"encoding/json"
	"fmt"

	"amora_backend/internal/logger"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
)

// Notifier принимает события после коммита транзакции.
// Ошибка нотификации не должна влиять на уже зафиксированный результат.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// LogNotifier пишет события в структурный лог. Дефолт для dev-окружения.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, event Event) {
	logger.CtxInfo(ctx, "domain event",
		"event", event.Name,
		"user_id", event.UserID,
		"payload", event.Payload,
	)
}

// OutboxNotifier дублирует событие в таблицу domain_events: внешний
// пайплайн (пуши, аналитика) забирает их оттуда.
type OutboxNotifier struct {
	repo repositories.EventRepository
}

func NewOutboxNotifier(repo repositories.EventRepository) *OutboxNotifier {
	return &OutboxNotifier{repo: repo}
}

func (n *OutboxNotifier) Notify(ctx context.Context, event Event) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		logger.CtxError(ctx, fmt.Sprintf("failed to marshal event payload: %v", err), "event", event.Name)
		return
	}

	row := models.DomainEvent{
		Name:       event.Name,
		Payload:    payload,
		OccurredAt: event.OccurredAt,
	}
	if event.UserID != "" {
		userID := event.UserID
		row.UserID = &userID
	}

	if err := n.repo.Insert(ctx, &row); err != nil {
		// Событие теряется только из outbox-копии; лог остается
		logger.CtxError(ctx, fmt.Sprintf("failed to insert outbox event: %v", err), "event", event.Name)
	}
}

// MultiNotifier рассылает событие всем вложенным нотификаторам
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (n *MultiNotifier) Notify(ctx context.Context, event Event) {
	for _, notifier := range n.notifiers {
		notifier.Notify(ctx, event)
	}
}
