package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.EventsCacheTTL)
	assert.Equal(t, 30, cfg.PurchaseRateLimit)
	assert.Equal(t, time.Minute, cfg.PurchaseRateWindow)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EVENTS_CACHE_TTL", "90s")
	t.Setenv("PURCHASE_RATE_LIMIT", "5")
	t.Setenv("ENABLE_METRICS", "false")

	cfg := LoadConfig()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.EventsCacheTTL)
	assert.Equal(t, 5, cfg.PurchaseRateLimit)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("EVENTS_CACHE_TTL", "soon")
	t.Setenv("ENABLE_METRICS", "yep")

	cfg := LoadConfig()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.EventsCacheTTL)
	assert.True(t, cfg.EnableMetrics)
}
