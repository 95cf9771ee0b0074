// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, time.Hour, cfg.Security.RecoveryTokenExpiry)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Security.MaxLoginAttempts)
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.local",
			Port:     "5433",
			User:     "app",
			Password: "secret",
			Name:     "storefront",
			SSLMode:  "disable",
		},
	}

	assert.Equal(t,
		"host=db.local port=5433 user=app password=secret dbname=storefront sslmode=disable",
		cfg.GetDatabaseDSN())
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache.local", Port: "6380"}}

	assert.Equal(t, "cache.local:6380", cfg.GetRedisAddr())
}
