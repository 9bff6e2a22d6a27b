package handlers

import (
	"net/http"

	"amora_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	*BaseHandler
	matchService services.MatchService
}

func NewMatchHandler(base *BaseHandler, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		BaseHandler:  base,
		matchService: matchService,
	}
}

func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup) {
	matches := r.Group("/matches")
	{
		matches.GET("", h.ListMatches)
		matches.GET("/:matchId", h.GetMatch)
		matches.POST("/:matchId/unmatch", h.Unmatch)
	}
}

// ListMatches - GET /api/v1/matches?limit=N
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 100)
	resp, err := h.matchService.ListMatches(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMatch - GET /api/v1/matches/:matchId
func (h *MatchHandler) GetMatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.matchService.GetMatch(c.Request.Context(), userID, c.Param("matchId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Unmatch - POST /api/v1/matches/:matchId/unmatch
// Разрыв терминален: повторный вызов отдает 409.
func (h *MatchHandler) Unmatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.matchService.Unmatch(c.Request.Context(), userID, c.Param("matchId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unmatched"})
}
