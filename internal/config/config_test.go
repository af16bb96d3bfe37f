package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://u:p@host/db")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "runtime/secrets.toml", cfg.SecretsFile)
	assert.Equal(t, 30*time.Second, cfg.LayoutCacheTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_PortFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RedisOptional(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LAYOUT_CACHE_TTL", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAYOUT_CACHE_TTL")
}

func TestLoad_Production(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}
