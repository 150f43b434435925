package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/service"
)

type StandingsHandler struct {
	Service *service.StandingsService
	Logger  *zap.Logger
}

func (h *StandingsHandler) Register(r *gin.Engine) {
	r.GET("/api/standings", h.leaderboard)
}

func (h *StandingsHandler) leaderboard(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	tier := c.DefaultQuery("tier", models.TierPremium)
	limit := 0
	if val := c.Query("limit"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			limit = i
		}
	}
	rows, err := h.Service.Leaderboard(c.Request.Context(), tier, limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("standings query failed", zap.Error(err))
		}
		serviceError(c, err)
		return
	}
	Ok(c, rows, map[string]any{"tier": tier})
}
