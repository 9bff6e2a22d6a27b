package dto

import "time"

type SubscribeRequest struct {
	PlanID    string `json:"plan_id" validate:"required,uuid4"`
	AutoRenew bool   `json:"auto_renew"`
}

type SubscriptionResponse struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	AutoRenew bool      `json:"auto_renew"`
}

type PlanResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Duration int     `json:"duration_days"`
}
