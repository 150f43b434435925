package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/service"
	"motorsportstakes/internal/valuation"
)

// ResultsHandler is the admin entry point into the valuation engine.
type ResultsHandler struct {
	Service *service.ResultsService
	Tokens  *auth.Manager
	Logger  *zap.Logger
}

func (h *ResultsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/admin/races", auth.RequireUser(h.Tokens), auth.RequireAdmin())
	group.POST("/:id/results", h.submit)
	group.PUT("/:id/results", h.resubmit)
}

type submitResultsRequest struct {
	Results []valuation.SubmittedResult `json:"results" binding:"required"`
}

func (h *ResultsHandler) submit(c *gin.Context) {
	h.apply(c, false)
}

func (h *ResultsHandler) resubmit(c *gin.Context) {
	h.apply(c, true)
}

func (h *ResultsHandler) apply(c *gin.Context, resubmit bool) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	raceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raceID == 0 {
		Error(c, http.StatusBadRequest, "invalid race id", nil)
		return
	}
	var req submitResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	report, err := h.Service.Submit(c.Request.Context(), raceID, req.Results, resubmit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("results submission failed",
				zap.Uint64("race_id", raceID), zap.Bool("resubmit", resubmit), zap.Error(err))
		}
		serviceError(c, err)
		return
	}
	Ok(c, report, nil)
}
