package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/service"
)

type MarketHandler struct {
	Service *service.MarketService
	Logger  *zap.Logger
}

func (h *MarketHandler) Register(r *gin.Engine) {
	r.GET("/api/market", h.snapshot)
}

func (h *MarketHandler) snapshot(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	view, err := h.Service.Snapshot(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("market snapshot failed", zap.Error(err))
		}
		serviceError(c, err)
		return
	}
	Ok(c, view, nil)
}
