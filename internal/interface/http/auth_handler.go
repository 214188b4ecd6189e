package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/response"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		response.Error(c, http.StatusBadRequest, "Invalid Credentials", nil)
		return
	}
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, gin.H{"token": token})
}

// Me GET /api/auth
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error(c, http.StatusNotFound, "User not found", nil)
		return
	}
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, u)
}
