package handlers

import (
	"net/http"

	"amora_backend/internal/services"
	"amora_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ConsumableHandler struct {
	*BaseHandler
	consumableService services.ConsumableService
}

func NewConsumableHandler(base *BaseHandler, consumableService services.ConsumableService) *ConsumableHandler {
	return &ConsumableHandler{
		BaseHandler:       base,
		consumableService: consumableService,
	}
}

func (h *ConsumableHandler) RegisterRoutes(r *gin.RouterGroup) {
	consumables := r.Group("/consumables")
	{
		consumables.GET("/balance", h.GetBalance)
		consumables.POST("/boost", h.ActivateBoost)
	}

	purchases := r.Group("/purchases")
	{
		purchases.POST("/settle", h.SettlePurchase)
	}
}

// GetBalance - GET /api/v1/consumables/balance
func (h *ConsumableHandler) GetBalance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.consumableService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ActivateBoost - POST /api/v1/consumables/boost
func (h *ConsumableHandler) ActivateBoost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.consumableService.ActivateBoost(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SettlePurchase - POST /api/v1/purchases/settle
// Вызывается биллинговым сервисом после подтверждения платежа
func (h *ConsumableHandler) SettlePurchase(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PurchaseSettleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.consumableService.SettlePurchase(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
