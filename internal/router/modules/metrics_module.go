package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/metrics"
)

type MetricsModule struct {
	Metrics *metrics.Metrics
	Redis   *redis.Client
}

func NewMetricsModule(m *metrics.Metrics, rdb *redis.Client) *MetricsModule {
	return &MetricsModule{Metrics: m, Redis: rdb}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Public Prometheus endpoint, rate-limited per IP; scrapers on private networks bypass the limit
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
