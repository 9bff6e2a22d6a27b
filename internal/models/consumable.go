package models

import "time"

// Consumable - леджер ограниченных ресурсов пользователя (одна строка на юзера).
// Балансы никогда не уходят в минус: декремент защищен условием в самом UPDATE.
type Consumable struct {
	BaseModel
	UserID             string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	SuperLikesBalance  int       `gorm:"not null;default:0" json:"super_likes_balance"`
	BoostsBalance      int       `gorm:"not null;default:0" json:"boosts_balance"`
	LastSuperLikeReset time.Time `gorm:"not null" json:"last_super_like_reset"`
	BoostActiveUntil   *time.Time `json:"boost_active_until,omitempty"`
}

// Balance возвращает баланс запрошенного ресурса
func (c *Consumable) Balance(resource ConsumableResource) int {
	switch resource {
	case ResourceSuperLike:
		return c.SuperLikesBalance
	case ResourceBoost:
		return c.BoostsBalance
	default:
		return 0
	}
}
