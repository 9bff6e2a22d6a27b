package repositories

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepository interface {
	// Upsert записывает свайп по ключу (swiper_id, swiped_id): last-write-wins.
	// CreatedAt существующей строки не трогается, ActionedAt всегда свежий.
	// Методы с tx обязаны выполняться внутри транзакции RecordSwipe.
	Upsert(ctx context.Context, tx *gorm.DB, swiperID, swipedID string, action models.SwipeAction, now time.Time) (*models.Swipe, error)
	FindByPair(ctx context.Context, swiperID, swipedID string) (*models.Swipe, error)
	// HasReciprocalPositive проверяет обратное направление: swiped -> swiper с like|superlike
	HasReciprocalPositive(ctx context.Context, tx *gorm.DB, swiperID, swipedID string) (bool, error)
	CountByActorSince(ctx context.Context, swiperID string, since time.Time) (int64, error)
}

type SwipeRepositoryImpl struct {
	db *gorm.DB
}

func NewSwipeRepository(db *gorm.DB) SwipeRepository {
	return &SwipeRepositoryImpl{db: db}
}

func (r *SwipeRepositoryImpl) Upsert(ctx context.Context, tx *gorm.DB, swiperID, swipedID string, action models.SwipeAction, now time.Time) (*models.Swipe, error) {
	swipe := models.Swipe{
		SwiperID:   swiperID,
		SwipedID:   swipedID,
		Action:     action,
		ActionedAt: now,
	}

	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "swiper_id"}, {Name: "swiped_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"action":      action,
			"actioned_at": now,
			"updated_at":  now,
		}),
	}).Create(&swipe).Error
	if err != nil {
		return nil, err
	}

	// Перечитываем строку: при конфликте сохраняется исходный id и created_at
	var persisted models.Swipe
	err = tx.WithContext(ctx).
		First(&persisted, "swiper_id = ? AND swiped_id = ?", swiperID, swipedID).Error
	if err != nil {
		return nil, err
	}
	return &persisted, nil
}

func (r *SwipeRepositoryImpl) FindByPair(ctx context.Context, swiperID, swipedID string) (*models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.WithContext(ctx).
		First(&swipe, "swiper_id = ? AND swiped_id = ?", swiperID, swipedID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwipeNotFound
		}
		return nil, err
	}
	return &swipe, nil
}

func (r *SwipeRepositoryImpl) HasReciprocalPositive(ctx context.Context, tx *gorm.DB, swiperID, swipedID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND action IN ?",
			swipedID, swiperID,
			[]models.SwipeAction{models.SwipeActionLike, models.SwipeActionSuperLike}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SwipeRepositoryImpl) CountByActorSince(ctx context.Context, swiperID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Swipe{}).
		Where("swiper_id = ? AND actioned_at >= ?", swiperID, since).
		Count(&count).Error
	return count, err
}
