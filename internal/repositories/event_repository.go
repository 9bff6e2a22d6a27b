package repositories

import (
	"context"

	"amora_backend/internal/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	Insert(ctx context.Context, event *models.DomainEvent) error
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) Insert(ctx context.Context, event *models.DomainEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
