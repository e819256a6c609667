package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "sandbox")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUERY_MAX_LIMIT", "500")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "10")

	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "sandbox", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(500), cfg.Query.MaxLimit)
	assert.Equal(t, uint(10), cfg.Breaker.FailureThreshold)
}

func TestInit_DefaultValues(t *testing.T) {
	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// App defaults
	assert.Equal(t, "queryscope", cfg.App.ServiceName)
	assert.Equal(t, "development", cfg.App.Environment)

	// Database defaults
	assert.Equal(t, "postgres", cfg.Database.Host)
	assert.Equal(t, uint(5432), cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxConnections)

	// Query defaults
	assert.Equal(t, uint64(25), cfg.Query.DefaultLimit)
	assert.Equal(t, uint64(1000), cfg.Query.MaxLimit)
	assert.Equal(t, 5, cfg.Query.MaxOrderFields)
	assert.Equal(t, 100, cfg.Query.MaxFilterNodes)

	// Breaker defaults
	assert.Equal(t, "pager-read", cfg.Breaker.Name)
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, uint(5), cfg.Breaker.FailureThreshold)
}
