package handlers

import (
	"errors"
	"net/http"

	"amora_backend/internal/repositories"
	"amora_backend/internal/services"
	"amora_backend/internal/services/dto"
	"amora_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SwipeHandler struct {
	*BaseHandler
	swipeService services.SwipeService
}

func NewSwipeHandler(base *BaseHandler, swipeService services.SwipeService) *SwipeHandler {
	return &SwipeHandler{
		BaseHandler:  base,
		swipeService: swipeService,
	}
}

func (h *SwipeHandler) RegisterRoutes(r *gin.RouterGroup) {
	swipes := r.Group("/swipes")
	{
		swipes.POST("", h.RecordSwipe)
		swipes.GET("/:targetId", h.GetSwipe)
	}
}

// RecordSwipe - POST /api/v1/swipes
// 200 с blocked в теле - это успешный ответ: свайп отклонен политикой,
// а не ошибкой запроса.
func (h *SwipeHandler) RecordSwipe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SwipeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.swipeService.RecordSwipe(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSwipe - GET /api/v1/swipes/:targetId (последнее действие по цели)
func (h *SwipeHandler) GetSwipe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	targetID := c.Param("targetId")
	swipe, err := h.swipeService.GetSwipe(c.Request.Context(), userID, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwipeNotFound) {
			h.HandleServiceError(c, apperrors.ErrNotFound(err))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SwipeResponse{
		SwipeID:    swipe.ID,
		Action:     string(swipe.Action),
		ActionedAt: &swipe.ActionedAt,
	})
}
