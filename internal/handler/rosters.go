package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/service"
)

type RosterHandler struct {
	Service *service.RosterService
	Tokens  *auth.Manager
	Logger  *zap.Logger
}

func (h *RosterHandler) Register(r *gin.Engine) {
	group := r.Group("/api/rosters", auth.RequireUser(h.Tokens))
	group.GET("", h.list)
	group.PUT("/:id", h.update)
}

func (h *RosterHandler) list(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	teams, err := h.Service.ListOwn(c.Request.Context(), auth.UserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, teams, nil)
}

type rosterUpdateRequest struct {
	Driver1ID *uint64 `json:"driver1Id"`
	Driver2ID *uint64 `json:"driver2Id"`
	EngineID  *uint64 `json:"engineId"`
	ChassisID *uint64 `json:"chassisId"`
}

func (h *RosterHandler) update(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || teamID == 0 {
		Error(c, http.StatusBadRequest, "invalid roster id", nil)
		return
	}
	var req rosterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	team, err := h.Service.Update(c.Request.Context(), auth.UserID(c), teamID, service.RosterSelection{
		Driver1ID: req.Driver1ID,
		Driver2ID: req.Driver2ID,
		EngineID:  req.EngineID,
		ChassisID: req.ChassisID,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("roster update rejected", zap.Uint64("team_id", teamID), zap.Error(err))
		}
		serviceError(c, err)
		return
	}
	Ok(c, team, nil)
}
