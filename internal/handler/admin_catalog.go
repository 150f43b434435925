package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// AdminCatalogHandler covers admin CRUD for drivers, engines, chassis and
// races. Asset values are set at creation and then owned by the valuation
// engine; updates here touch metadata only.
type AdminCatalogHandler struct {
	Repo   repository.Repository
	Tokens *auth.Manager
	Logger *zap.Logger
}

func (h *AdminCatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api/admin", auth.RequireUser(h.Tokens), auth.RequireAdmin())

	group.GET("/drivers", h.listDrivers)
	group.POST("/drivers", h.createDriver)
	group.PUT("/drivers/:id", h.updateDriver)

	group.GET("/engines", h.listEngines)
	group.POST("/engines", h.createEngine)
	group.PUT("/engines/:id", h.updateEngine)

	group.GET("/chassis", h.listChassis)
	group.POST("/chassis", h.createChassis)
	group.PUT("/chassis/:id", h.updateChassis)

	group.POST("/races", h.createRace)
	group.PUT("/races/:id", h.updateRace)
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

type driverRequest struct {
	Name      string `json:"name" binding:"required"`
	Number    int    `json:"number" binding:"required"`
	ChassisID uint64 `json:"chassisId" binding:"required"`
	Value     int64  `json:"value"`
	Retired   *bool  `json:"retired"`
}

func (h *AdminCatalogHandler) listDrivers(c *gin.Context) {
	drivers, err := h.Repo.ListDrivers(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, drivers, nil)
}

func (h *AdminCatalogHandler) createDriver(c *gin.Context) {
	var req driverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	chassis, err := h.Repo.GetChassisByID(c.Request.Context(), req.ChassisID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if chassis == nil {
		Error(c, http.StatusBadRequest, "chassis does not exist", nil)
		return
	}
	driver := &models.Driver{
		Name:      req.Name,
		Number:    req.Number,
		ChassisID: req.ChassisID,
		Value:     req.Value,
	}
	if err := h.Repo.CreateDriver(c.Request.Context(), driver); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("driver created", zap.Uint64("driver_id", driver.ID))
	}
	Ok(c, driver, nil)
}

func (h *AdminCatalogHandler) updateDriver(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	driver, err := h.Repo.GetDriverByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if driver == nil {
		Error(c, http.StatusNotFound, "driver not found", nil)
		return
	}
	var req driverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	driver.Name = req.Name
	driver.Number = req.Number
	driver.ChassisID = req.ChassisID
	if req.Retired != nil {
		driver.Retired = *req.Retired
	}
	if err := h.Repo.UpdateDriver(c.Request.Context(), driver); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, driver, nil)
}

type engineRequest struct {
	Name  string `json:"name" binding:"required"`
	Value int64  `json:"value"`
}

func (h *AdminCatalogHandler) listEngines(c *gin.Context) {
	engines, err := h.Repo.ListEngines(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, engines, nil)
}

func (h *AdminCatalogHandler) createEngine(c *gin.Context) {
	var req engineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	engine := &models.Engine{Name: req.Name, Value: req.Value}
	if err := h.Repo.CreateEngine(c.Request.Context(), engine); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, engine, nil)
}

func (h *AdminCatalogHandler) updateEngine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	engine, err := h.Repo.GetEngineByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if engine == nil {
		Error(c, http.StatusNotFound, "engine not found", nil)
		return
	}
	var req engineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	engine.Name = req.Name
	if err := h.Repo.UpdateEngine(c.Request.Context(), engine); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, engine, nil)
}

type chassisRequest struct {
	Name     string  `json:"name" binding:"required"`
	EngineID *uint64 `json:"engineId"`
	Value    int64   `json:"value"`
}

func (h *AdminCatalogHandler) listChassis(c *gin.Context) {
	chassis, err := h.Repo.ListChassis(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, chassis, nil)
}

func (h *AdminCatalogHandler) createChassis(c *gin.Context) {
	var req chassisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.EngineID != nil {
		engine, err := h.Repo.GetEngineByID(c.Request.Context(), *req.EngineID)
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
		if engine == nil {
			Error(c, http.StatusBadRequest, "engine does not exist", nil)
			return
		}
	}
	chassis := &models.Chassis{Name: req.Name, EngineID: req.EngineID, Value: req.Value}
	if err := h.Repo.CreateChassis(c.Request.Context(), chassis); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, chassis, nil)
}

func (h *AdminCatalogHandler) updateChassis(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	chassis, err := h.Repo.GetChassisByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if chassis == nil {
		Error(c, http.StatusNotFound, "chassis not found", nil)
		return
	}
	var req chassisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	chassis.Name = req.Name
	chassis.EngineID = req.EngineID
	if err := h.Repo.UpdateChassis(c.Request.Context(), chassis); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, chassis, nil)
}

type raceRequest struct {
	Name  string    `json:"name" binding:"required"`
	Round int       `json:"round" binding:"required,min=1"`
	Date  time.Time `json:"date" binding:"required"`
}

func (h *AdminCatalogHandler) createRace(c *gin.Context) {
	var req raceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	race := &models.Race{Name: req.Name, Round: req.Round, Date: req.Date}
	if err := h.Repo.CreateRace(c.Request.Context(), race); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, race, nil)
}

func (h *AdminCatalogHandler) updateRace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	race, err := h.Repo.GetRaceByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if race == nil {
		Error(c, http.StatusNotFound, "race not found", nil)
		return
	}
	if race.ResultsSubmitted {
		Error(c, http.StatusConflict, "race already processed; resubmit results instead", nil)
		return
	}
	var req raceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	race.Name = req.Name
	race.Round = req.Round
	race.Date = req.Date
	if err := h.Repo.UpdateRace(c.Request.Context(), race); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, race, nil)
}
