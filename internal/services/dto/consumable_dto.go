package dto

import "time"

type BalanceResponse struct {
	SuperLikes       int        `json:"super_likes"`
	Boosts           int        `json:"boosts"`
	BoostActiveUntil *time.Time `json:"boost_active_until,omitempty"`
	NextReset        time.Time  `json:"next_super_like_reset"`
}

type BoostActivateResponse struct {
	ActiveUntil    time.Time `json:"active_until"`
	BoostsLeft     int       `json:"boosts_left"`
	AlreadyRunning bool      `json:"already_running,omitempty"`
}

// PurchaseSettleRequest - подтверждение покупки, уже провалидированной
// платежным провайдером выше по стеку
type PurchaseSettleRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=100"`
}

type PurchaseSettleResponse struct {
	Resource   string `json:"resource"`
	Credited   int    `json:"credited"`
	NewBalance int    `json:"new_balance"`
}
