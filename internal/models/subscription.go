package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	BaseModel
	Name     string         `gorm:"not null;uniqueIndex"`
	Price    float64        `gorm:"not null"`
	Currency string         `gorm:"default:'USD'"`
	Duration string         `gorm:"not null"`   // "monthly", "yearly"
	Features datatypes.JSON `gorm:"type:jsonb"` // {"see_who_likes_you": true, ...}
	Limits   datatypes.JSON `gorm:"type:jsonb"` // см. PlanLimits
	IsActive bool           `gorm:"default:true"`
}

type UserSubscription struct {
	BaseModel
	UserID      string             `gorm:"type:uuid;not null;index"`
	PlanID      string             `gorm:"type:uuid;not null;index"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);default:'active';index"`
	StartDate   time.Time
	EndDate     time.Time
	AutoRenew   bool `gorm:"default:true"`
	CancelledAt *time.Time

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID"`
}

// PlanLimits - схема jsonb-поля Limits у тарифного плана.
// Нулевые значения трактуются как "кап не задан планом" - действует free-tier.
type PlanLimits struct {
	SuperLikesCap       int  `json:"super_likes_cap"`
	BoostsCap           int  `json:"boosts_cap"`
	UnlimitedLikes      bool `json:"unlimited_likes"`
	UnmeteredSuperLikes bool `json:"unmetered_super_likes"`
}
