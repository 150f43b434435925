package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorsportstakes/internal/service"
)

type AuthHandler struct {
	Users  *service.UserService
	Logger *zap.Logger
}

func (h *AuthHandler) Register(r *gin.Engine) {
	group := r.Group("/api/auth")
	group.POST("/register", h.register)
	group.POST("/login", h.login)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (h *AuthHandler) register(c *gin.Context) {
	if h.Users == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, token, err := h.Users.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("register failed", zap.Error(err))
		}
		serviceError(c, err)
		return
	}
	Ok(c, sessionResponse{Token: token, User: user}, nil)
}

func (h *AuthHandler) login(c *gin.Context) {
	if h.Users == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, sessionResponse{Token: token, User: user}, nil)
}
