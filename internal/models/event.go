package models

import (
	"time"

	"gorm.io/datatypes"
)

// DomainEvent - outbox-копия событий, отданных нотификатору.
// Доставкой занимается внешний пайплайн; ядро только пишет и забывает.
type DomainEvent struct {
	BaseModel
	UserID     *string        `gorm:"type:uuid;index"`
	Name       string         `gorm:"type:varchar(100);not null;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	OccurredAt time.Time      `gorm:"not null;index"`
}

func (DomainEvent) TableName() string {
	return "domain_events"
}
