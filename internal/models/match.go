package models

import "time"

// Match - взаимный положительный сигнал. Пара нормализована: User1ID < User2ID,
// поэтому на неупорядоченную пару приходится не больше одной активной строки
// (partial unique index по status = 'active'). Разорванный матч остается в
// истории как терминальная запись; повторный взаимный лайк создает НОВУЮ строку.
type Match struct {
	BaseModel
	User1ID            string      `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair_active,priority:1,where:status = 'active';index" json:"user1_id"`
	User2ID            string      `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair_active,priority:2,where:status = 'active';index" json:"user2_id"`
	Status             MatchStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	MatchedBySwipeID   string      `gorm:"type:uuid" json:"matched_by_swipe_id"`
	LastMessageAt      *time.Time  `json:"last_message_at,omitempty"`
	LastMessagePreview string      `gorm:"type:varchar(255)" json:"last_message_preview,omitempty"`
	UnmatchedAt        *time.Time  `json:"unmatched_at,omitempty"`
	UnmatchedBy        string      `gorm:"type:uuid" json:"unmatched_by,omitempty"`
}

// NormalizePair приводит пару к каноническому порядку user1 < user2
func NormalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// OtherUser возвращает собеседника для данного участника матча
func (m *Match) OtherUser(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// HasParticipant проверяет участие пользователя в матче
func (m *Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}
