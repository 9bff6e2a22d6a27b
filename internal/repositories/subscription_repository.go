package repositories

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("subscription plan not found")
)

type SubscriptionRepository interface {
	// FindActiveByUserID возвращает действующую подписку с планом.
	// Строка со status=active, но истекшим end_date, активной не считается.
	FindActiveByUserID(ctx context.Context, userID string, now time.Time) (*models.UserSubscription, error)
	FindActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	FindPlanByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error)
	FindPlanByName(ctx context.Context, name string) (*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	CreateUserSubscription(ctx context.Context, sub *models.UserSubscription) error
	CancelByUserID(ctx context.Context, userID string, now time.Time) error
	// ExpireOverdue переводит просроченные активные подписки в expired
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) FindActiveByUserID(ctx context.Context, userID string, now time.Time) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ? AND end_date > ?", userID, models.SubscriptionStatusActive, now).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(ctx context.Context, planID string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *SubscriptionRepositoryImpl) CreateUserSubscription(ctx context.Context, sub *models.UserSubscription) error {
	// План уже существует, ассоциацию не пересохраняем
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) CancelByUserID(ctx context.Context, userID string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": now,
			"auto_renew":   false,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.UserSubscription{}).
		Where("status = ? AND end_date <= ?", models.SubscriptionStatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
