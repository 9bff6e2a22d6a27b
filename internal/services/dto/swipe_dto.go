package dto

import "time"

type SwipeRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid4"`
	Action   string `json:"action" validate:"required,oneof=like pass superlike"`
}

// BlockedInfo - отказ по бизнес-правилу внутри успешного ответа:
// свайп не записан, но это не ошибка транспорта и не 4xx-валидация.
type BlockedInfo struct {
	Reason string `json:"reason"`
}

type SwipeResponse struct {
	SwipeID    string         `json:"swipe_id,omitempty"`
	Action     string         `json:"action,omitempty"`
	ActionedAt *time.Time     `json:"actioned_at,omitempty"`
	IsMatch    bool           `json:"is_match"`
	Match      *MatchResponse `json:"match,omitempty"`
	Blocked    *BlockedInfo   `json:"blocked,omitempty"`
}

type MatchResponse struct {
	ID            string     `json:"id"`
	OtherUserID   string     `json:"other_user_id"`
	Status        string     `json:"status"`
	MatchedAt     time.Time  `json:"matched_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type MatchListResponse struct {
	Matches []MatchResponse `json:"matches"`
	Total   int             `json:"total"`
}
