package models

import "time"

type User struct {
	BaseModel
	DisplayName string     `gorm:"type:varchar(64);not null"`
	Status      UserStatus `gorm:"type:varchar(20);default:'active';index"`
	BirthDate   *time.Time
	City        string `gorm:"type:varchar(64)"`
	LastActive  *time.Time

	// Relations
	Swipes       []Swipe           `gorm:"foreignKey:SwiperID"`
	Consumable   *Consumable       `gorm:"foreignKey:UserID"`
	Subscription *UserSubscription `gorm:"foreignKey:UserID"`
}
