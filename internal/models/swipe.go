package models

import "time"

// Swipe - одно направленное действие пользователя по чужому профилю.
// Уникальный индекс по паре (swiper_id, swiped_id) гарантирует одну строку
// на направление: повторный свайп перезаписывает действие (last-write-wins),
// CreatedAt остается временем первого касания, ActionedAt - последнего решения.
type Swipe struct {
	BaseModel
	SwiperID   string      `gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair,priority:1" json:"swiper_id"`
	SwipedID   string      `gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair,priority:2;index" json:"swiped_id"`
	Action     SwipeAction `gorm:"type:varchar(16);not null" json:"action"`
	ActionedAt time.Time   `gorm:"not null" json:"actioned_at"`
}
