package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/response"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type textRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

func (h *PostHandler) postFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, "Post not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusUnauthorized, "User not found", nil)
	case errors.Is(err, entity.ErrNotOwner):
		response.Error(c, http.StatusUnauthorized, "User not authorized", nil)
	case errors.Is(err, entity.ErrAlreadyLiked):
		response.Error(c, http.StatusBadRequest, "Post already liked", nil)
	case errors.Is(err, entity.ErrNotLiked):
		response.Error(c, http.StatusBadRequest, "Post has not yet been liked", nil)
	case errors.Is(err, entity.ErrCommentNotFound):
		response.Error(c, http.StatusBadRequest, "Comment does not exist", nil)
	default:
		unexpected(c, h.Logger, err)
	}
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.Text)
	if err != nil {
		h.postFailure(c, err)
		return
	}
	response.JSON(c, p)
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, ps)
}

// Search GET /api/posts/search?q=&size=
func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.JSON(c, []map[string]any{})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, hits)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, application.ErrPostNotFound) {
		response.Error(c, http.StatusBadRequest, "Post not found", nil)
		return
	}
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, p)
}

// Delete DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.postFailure(c, err)
		return
	}
	response.Ack(c, "Post removed")
}

// Like PUT /api/posts/like/:id
func (h *PostHandler) Like(c *gin.Context) {
	likes, err := h.Svc.Like(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.postFailure(c, err)
		return
	}
	response.JSON(c, likes)
}

// Unlike PUT /api/posts/unlike/:id
func (h *PostHandler) Unlike(c *gin.Context) {
	likes, err := h.Svc.Unlike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.postFailure(c, err)
		return
	}
	response.JSON(c, likes)
}

// Comment POST /api/posts/comment/:id
func (h *PostHandler) Comment(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	comments, err := h.Svc.Comment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Text)
	if err != nil {
		h.postFailure(c, err)
		return
	}
	response.JSON(c, comments)
}

// Uncomment DELETE /api/posts/comment/:id/:comment_id
func (h *PostHandler) Uncomment(c *gin.Context) {
	comments, err := h.Svc.Uncomment(c.Request.Context(), c.Param("id"), c.Param("comment_id"), middleware.UserID(c))
	if err != nil {
		h.postFailure(c, err)
		return
	}
	response.JSON(c, comments)
}
