package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amora_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrConsumableNotFound = errors.New("consumable ledger row not found")
	// ErrInsufficientBalance - ожидаемый исход, а не сбой: баланс меньше
	// запрошенного списания. Декремент через ноль отклоняется, не клампится.
	ErrInsufficientBalance = errors.New("insufficient consumable balance")
)

type ConsumableRepository interface {
	// EnsureRow создает строку леджера, если ее еще нет (идемпотентно)
	EnsureRow(ctx context.Context, tx *gorm.DB, userID string, lastReset, now time.Time) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) (*models.Consumable, error)
	// ConsumeGuarded атомарно списывает amount: условие balance >= amount
	// стоит в самом UPDATE, гонка consume/consume или consume/reset не может
	// увести баланс в минус. Возвращает остаток после списания.
	ConsumeGuarded(ctx context.Context, tx *gorm.DB, userID string, resource models.ConsumableResource, amount int, now time.Time) (int, error)
	Credit(ctx context.Context, tx *gorm.DB, userID string, resource models.ConsumableResource, amount int, now time.Time) error
	// ResetSuperLikes - CAS по таймстемпу: применяется только если прошлый
	// reset старше cutoff. Повторный вызов внутри интервала - no-op.
	ResetSuperLikes(ctx context.Context, tx *gorm.DB, userID string, cap int, cutoff, now time.Time) (bool, error)
	SetBoostWindow(ctx context.Context, tx *gorm.DB, userID string, until, now time.Time) error

	// Фоновые sweeps (идемпотентные, безопасны параллельно с live-операциями)
	ExpireBoostWindows(ctx context.Context, now time.Time) (int64, error)
	BulkResetFreeTierSuperLikes(ctx context.Context, cap int, cutoff, now time.Time) (int64, error)
}

type ConsumableRepositoryImpl struct {
	db *gorm.DB
}

func NewConsumableRepository(db *gorm.DB) ConsumableRepository {
	return &ConsumableRepositoryImpl{db: db}
}

func (r *ConsumableRepositoryImpl) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func balanceColumn(resource models.ConsumableResource) (string, error) {
	switch resource {
	case models.ResourceSuperLike:
		return "super_likes_balance", nil
	case models.ResourceBoost:
		return "boosts_balance", nil
	default:
		return "", fmt.Errorf("unknown consumable resource: %s", resource)
	}
}

func (r *ConsumableRepositoryImpl) EnsureRow(ctx context.Context, tx *gorm.DB, userID string, lastReset, now time.Time) error {
	row := models.Consumable{
		UserID:             userID,
		LastSuperLikeReset: lastReset,
	}
	return r.handle(tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

func (r *ConsumableRepositoryImpl) GetByUser(ctx context.Context, tx *gorm.DB, userID string) (*models.Consumable, error) {
	var row models.Consumable
	err := r.handle(tx).WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsumableNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *ConsumableRepositoryImpl) ConsumeGuarded(ctx context.Context, tx *gorm.DB, userID string, resource models.ConsumableResource, amount int, now time.Time) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("consume amount must be positive, got %d", amount)
	}
	column, err := balanceColumn(resource)
	if err != nil {
		return 0, err
	}

	// RETURNING отдает остаток тем же statement'ом: отдельный SELECT после
	// декремента мог бы увидеть баланс уже после чужого параллельного списания
	var updated models.Consumable
	result := r.handle(tx).WithContext(ctx).Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: column}}}).
		Where(fmt.Sprintf("user_id = ? AND %s >= ?", column), userID, amount).
		Updates(map[string]interface{}{
			column:       gorm.Expr(fmt.Sprintf("%s - ?", column), amount),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrInsufficientBalance
	}
	return updated.Balance(resource), nil
}

func (r *ConsumableRepositoryImpl) Credit(ctx context.Context, tx *gorm.DB, userID string, resource models.ConsumableResource, amount int, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	column, err := balanceColumn(resource)
	if err != nil {
		return err
	}

	result := r.handle(tx).WithContext(ctx).Model(&models.Consumable{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			column:       gorm.Expr(fmt.Sprintf("%s + ?", column), amount),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConsumableNotFound
	}
	return nil
}

func (r *ConsumableRepositoryImpl) ResetSuperLikes(ctx context.Context, tx *gorm.DB, userID string, cap int, cutoff, now time.Time) (bool, error) {
	result := r.handle(tx).WithContext(ctx).Model(&models.Consumable{}).
		Where("user_id = ? AND last_super_like_reset <= ?", userID, cutoff).
		Updates(map[string]interface{}{
			"super_likes_balance":   cap,
			"last_super_like_reset": now,
			"updated_at":            now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ConsumableRepositoryImpl) SetBoostWindow(ctx context.Context, tx *gorm.DB, userID string, until, now time.Time) error {
	result := r.handle(tx).WithContext(ctx).Model(&models.Consumable{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"boost_active_until": until,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConsumableNotFound
	}
	return nil
}

func (r *ConsumableRepositoryImpl) ExpireBoostWindows(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Consumable{}).
		Where("boost_active_until IS NOT NULL AND boost_active_until <= ?", now).
		Updates(map[string]interface{}{
			"boost_active_until": nil,
			"updated_at":         now,
		})
	return result.RowsAffected, result.Error
}

func (r *ConsumableRepositoryImpl) BulkResetFreeTierSuperLikes(ctx context.Context, cap int, cutoff, now time.Time) (int64, error) {
	// Только free-tier: пользователи с активной подпиской пополняются лениво
	// по капу своего плана при чтении/списании
	result := r.db.WithContext(ctx).Model(&models.Consumable{}).
		Where("last_super_like_reset <= ?", cutoff).
		Where("user_id NOT IN (?)",
			r.db.Model(&models.UserSubscription{}).
				Select("user_id").
				Where("status = ? AND end_date > ?", models.SubscriptionStatusActive, now)).
		Updates(map[string]interface{}{
			"super_likes_balance":   cap,
			"last_super_like_reset": now,
			"updated_at":            now,
		})
	return result.RowsAffected, result.Error
}
