package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"motorsportstakes/internal/service"
	"motorsportstakes/internal/valuation"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// serviceError maps service sentinels onto HTTP statuses; anything unknown is
// treated as a dependency failure.
func serviceError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidGrid),
		errors.Is(err, service.ErrUnknownDriver),
		errors.Is(err, service.ErrUnknownAsset),
		errors.Is(err, service.ErrDriverRetired),
		errors.Is(err, service.ErrDuplicateDriver),
		errors.Is(err, service.ErrInsufficientCredits),
		errors.Is(err, service.ErrInvalidTier):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotRosterOwner),
		errors.Is(err, service.ErrEditsLocked):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrRosterNotFound),
		errors.Is(err, valuation.ErrRaceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadySubmitted):
		status = http.StatusConflict
	}
	Error(c, status, err.Error(), nil)
}
