package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// ProfileModule wires profile routes.
// Public: GET /api/profile, /api/profile/user/:user_id, /api/profile/github/:username
// Protected: everything acting on the caller's own profile
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager, rdb *redis.Client) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	githubLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/profile", readLimiter, m.Handler.List)
	rg.GET("/profile/user/:user_id", readLimiter, m.Handler.GetByUserID)
	rg.GET("/profile/github/:username", githubLimiter, m.Handler.GitHubRepos)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile/me", m.Handler.Me)
		auth.POST("/profile", m.Handler.Upsert)
		auth.DELETE("/profile", m.Handler.Delete)
		auth.PUT("/profile/experience", m.Handler.AddExperience)
		auth.DELETE("/profile/experience/:exp_id", m.Handler.RemoveExperience)
		auth.PUT("/profile/education", m.Handler.AddEducation)
		auth.DELETE("/profile/education/:edu_id", m.Handler.RemoveEducation)
	}
}
