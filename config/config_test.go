package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "JWT_TTL", "GITHUB_CACHE_TTL", "ELASTICSEARCH_ADDRS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.False(t, cfg.UseMemoryStore())
	assert.Equal(t, 100*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.GitHubCacheTTL)
	assert.Empty(t, cfg.ESAddrs())
	assert.Empty(t, cfg.CORSOrigins())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://a:9200, ,http://b:9200")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "dc")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.ESAddrs())
	assert.Equal(t, "postgres://u:p@db:5433/dc?sslmode=require", cfg.PostgresDSN())
}
