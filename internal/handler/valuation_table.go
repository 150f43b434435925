package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/models"
	"motorsportstakes/internal/service"
)

// ValuationTableHandler exposes the admin-editable percent lookup table.
// Edits apply from the next valuation pass onward; past passes are never
// recalculated.
type ValuationTableHandler struct {
	Service *service.ValuationTableService
	Tokens  *auth.Manager
	Logger  *zap.Logger
}

func (h *ValuationTableHandler) Register(r *gin.Engine) {
	group := r.Group("/api/admin/valuation-table", auth.RequireUser(h.Tokens), auth.RequireAdmin())
	group.GET("", h.list)
	group.PUT("", h.upsert)
}

func (h *ValuationTableHandler) list(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	entries, err := h.Service.List(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, entries, nil)
}

type valuationTableRequest struct {
	Entries []models.ValuationEntry `json:"entries" binding:"required"`
}

func (h *ValuationTableHandler) upsert(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req valuationTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.Service.Upsert(c.Request.Context(), req.Entries); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("valuation table update rejected", zap.Error(err))
		}
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"updated": len(req.Entries)}, nil)
}
