package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/repository"
)

type RacesHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *RacesHandler) Register(r *gin.Engine) {
	group := r.Group("/api/races")
	group.GET("", h.list)
	group.GET("/:id/results", h.results)
}

func (h *RacesHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	races, err := h.Repo.ListRacesOrdered(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list races failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, races, nil)
}

func (h *RacesHandler) results(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	raceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raceID == 0 {
		Error(c, http.StatusBadRequest, "invalid race id", nil)
		return
	}
	race, err := h.Repo.GetRaceByID(c.Request.Context(), raceID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if race == nil {
		Error(c, http.StatusNotFound, "race not found", nil)
		return
	}
	results, err := h.Repo.ListResultsForRace(c.Request.Context(), raceID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"race": race, "results": results}, nil)
}
