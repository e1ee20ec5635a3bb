package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "csv", cfg.Store.Driver)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 200, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("ALLOWED_ORIGINS", "https://hr.example.com, http://localhost:3000 ,")
	t.Setenv("WRITE_TIMEOUT", "not-a-duration")
	t.Setenv("PORT", "9090")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://hr.example.com", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
}

func TestAlertSettings(t *testing.T) {
	// GIVEN: defaults only
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	// THEN: the check runs hourly
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, time.Hour, cfg.Alerts.CheckInterval)

	// WHEN: the environment turns it down
	t.Setenv("ALERTS_ENABLED", "false")
	t.Setenv("ALERT_CHECK_INTERVAL", "15m")
	v = viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg = fromViper(v)

	// THEN
	assert.False(t, cfg.Alerts.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Alerts.CheckInterval)
}
