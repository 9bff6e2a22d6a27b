package models

type UserStatus string
type SwipeAction string
type MatchStatus string
type SubscriptionStatus string
type ConsumableResource string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"

	SwipeActionLike      SwipeAction = "like"
	SwipeActionPass      SwipeAction = "pass"
	SwipeActionSuperLike SwipeAction = "superlike"

	MatchStatusActive    MatchStatus = "active"
	MatchStatusUnmatched MatchStatus = "unmatched"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	ResourceSuperLike ConsumableResource = "super_like"
	ResourceBoost     ConsumableResource = "boost"
)

// Valid проверяет, что действие входит в закрытый набор.
// Неизвестные значения отклоняются на границе, а не проваливаются дальше.
func (a SwipeAction) Valid() bool {
	switch a {
	case SwipeActionLike, SwipeActionPass, SwipeActionSuperLike:
		return true
	default:
		return false
	}
}

// Positive - только like и superlike участвуют в матчинге
func (a SwipeAction) Positive() bool {
	return a == SwipeActionLike || a == SwipeActionSuperLike
}

func (r ConsumableResource) Valid() bool {
	switch r {
	case ResourceSuperLike, ResourceBoost:
		return true
	default:
		return false
	}
}
