package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// PostModule wires post, like and comment routes. All of them need a token.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager, rdb *redis.Client) *PostModule {
	return &PostModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/posts")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PUT("/like/:id", m.Handler.Like)
		auth.PUT("/unlike/:id", m.Handler.Unlike)
		auth.POST("/comment/:id", m.Handler.Comment)
		auth.DELETE("/comment/:id/:comment_id", m.Handler.Uncomment)
	}
}
