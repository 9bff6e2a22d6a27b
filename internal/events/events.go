package events

import (
	"time"
)

// Имена доменных событий. Версия зашита в имя, чтобы консьюмеры
// могли эволюционировать независимо.
const (
	EventNewMatch            = "match.new"
	EventConsumableExhausted = "consumable.exhausted"
	EventMatchUnmatched      = "match.unmatched"
	EventBoostActivated      = "boost.activated"
)

// Event - доменное событие, собранное внутри транзакции и отданное
// нотификатору строго после commit. Откат транзакции означает, что
// событие никогда не публикуется.
type Event struct {
	Name       string
	UserID     string
	Payload    map[string]interface{}
	OccurredAt time.Time
}

func NewMatchEvent(matchID, user1ID, user2ID, triggeredBy string, occurredAt time.Time) Event {
	return Event{
		Name:   EventNewMatch,
		UserID: triggeredBy,
		Payload: map[string]interface{}{
			"match_id":     matchID,
			"user1_id":     user1ID,
			"user2_id":     user2ID,
			"triggered_by": triggeredBy,
		},
		OccurredAt: occurredAt,
	}
}

func ConsumableExhaustedEvent(userID, resource string, occurredAt time.Time) Event {
	return Event{
		Name:   EventConsumableExhausted,
		UserID: userID,
		Payload: map[string]interface{}{
			"user_id":  userID,
			"resource": resource,
		},
		OccurredAt: occurredAt,
	}
}

func MatchUnmatchedEvent(matchID, byUserID string, occurredAt time.Time) Event {
	return Event{
		Name:   EventMatchUnmatched,
		UserID: byUserID,
		Payload: map[string]interface{}{
			"match_id":     matchID,
			"unmatched_by": byUserID,
		},
		OccurredAt: occurredAt,
	}
}

func BoostActivatedEvent(userID string, until, occurredAt time.Time) Event {
	return Event{
		Name:   EventBoostActivated,
		UserID: userID,
		Payload: map[string]interface{}{
			"user_id":      userID,
			"active_until": until,
		},
		OccurredAt: occurredAt,
	}
}
