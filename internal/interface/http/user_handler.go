package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/response"
)

const (
	maxAvatarBytes = 2 << 20
	// room for the multipart envelope around the file
	maxAvatarBody = maxAvatarBytes + 1<<10
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd,max=72"`
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	token, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, application.ErrUserExists) {
		response.Error(c, http.StatusBadRequest, "User already exists", nil)
		return
	}
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, gin.H{"token": token})
}

// UploadAvatar PUT /api/users/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if c.Request.ContentLength > maxAvatarBody {
		response.Error(c, http.StatusBadRequest, "avatar must be at most 2MB", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBody)
	fh, err := c.FormFile("avatar")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusBadRequest, "avatar must be at most 2MB", nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "avatar must be an image", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error(c, http.StatusBadRequest, "avatar must be at most 2MB", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, contentType)
	switch {
	case errors.Is(err, application.ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, "Avatar storage is not configured", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	case err != nil:
		unexpected(c, h.Logger, err)
	default:
		response.JSON(c, u)
	}
}
