package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	SwipeHandler        *SwipeHandler
	MatchHandler        *MatchHandler
	ConsumableHandler   *ConsumableHandler
	SubscriptionHandler *SubscriptionHandler
}
