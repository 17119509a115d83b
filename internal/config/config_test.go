package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "cropwise.db", cfg.DBPath)
	assert.Equal(t, "dev-secret-change-me", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, 20*time.Second, cfg.OpenWeatherTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.AnalyticsMirrorEnabled())
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("CROPWISE_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("OPENWEATHER_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("ANALYTICS_TOPIC", "events")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://cropwise.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "ow-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 5*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AnalyticsMirrorEnabled())
	assert.Equal(t, "events", cfg.AnalyticsTopic)
	assert.Equal(t, "https://cropwise.example", cfg.CORSAllowOrigin)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "yesterday")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestLoad_NegativeTokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "-1h")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestLoad_InvalidUpstreamTimeout(t *testing.T) {
	t.Setenv("OPENWEATHER_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_TIMEOUT")
}
