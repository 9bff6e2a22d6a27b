package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок
свайп-движка: свайпы, матчи, консьюмаблы, подписки.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- Swipes ---

// ErrSelfSwipe - пользователь свайпает сам себя.
var ErrSelfSwipe = New(
	CodeInvalidOperation,
	"swipe",
	"Swiping your own profile is not allowed",
	http.StatusBadRequest,
)

// ErrUnknownSwipeAction - действие не входит в like|pass|superlike.
var ErrUnknownSwipeAction = New(
	CodeValidationFailed,
	"swipe",
	"Unknown swipe action",
	http.StatusBadRequest,
)

// ErrSwipeTargetUnavailable - цель свайпа не существует или не активна.
var ErrSwipeTargetUnavailable = New(
	CodeNotFound,
	"swipe",
	"Target profile is not available",
	http.StatusNotFound,
)

// ErrSwipeRateLimited - слишком частые свайпы (429)
func ErrSwipeRateLimited(retryAfterSec int64) *AppError {
	return New(CodeLimitExceeded, "swipe", "Too many swipes, slow down", http.StatusTooManyRequests).
		WithDetails(map[string]int64{"retry_after_sec": retryAfterSec})
}

// --- Matches ---

// ErrMatchNotFound - матч не найден.
var ErrMatchNotFound = New(
	CodeNotFound,
	"match",
	"Match not found",
	http.StatusNotFound,
)

// ErrNotMatchParticipant - пользователь не является участником матча.
var ErrNotMatchParticipant = New(
	CodeForbidden,
	"match",
	"You are not a participant of this match",
	http.StatusForbidden,
)

// ErrMatchAlreadyUnmatched - матч уже разорван; повторный unmatch невозможен.
var ErrMatchAlreadyUnmatched = New(
	CodeInvalidStatus,
	"match",
	"Match is already unmatched",
	http.StatusConflict,
)

// --- Consumables & Subscriptions ---

// ErrUnknownResource - ресурс не входит в super_like|boost.
var ErrUnknownResource = New(
	CodeValidationFailed,
	"consumable",
	"Unknown consumable resource",
	http.StatusBadRequest,
)

// ErrNoBoostsLeft - попытка активировать буст при нулевом балансе.
var ErrNoBoostsLeft = New(
	CodeLimitExceeded,
	"consumable",
	"No boosts left",
	http.StatusForbidden,
)

// ErrUnknownPurchaseSKU - платежный леджер прислал неизвестный SKU.
var ErrUnknownPurchaseSKU = New(
	CodeValidationFailed,
	"purchase",
	"Unknown purchase SKU",
	http.StatusBadRequest,
)

// ErrSubscriptionNotFound - у пользователя нет подписки.
var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"subscription",
	"Subscription not found",
	http.StatusNotFound,
)
