package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SQLite database file path.
	DBPath string

	// Token signing secret and lifetime.
	SecretKey string
	TokenTTL  time.Duration

	// OpenWeather upstream configuration. An empty API key is allowed at
	// startup; weather-dependent endpoints surface it per-request.
	OpenWeatherAPIKey  string
	OpenWeatherTimeout time.Duration

	// Optional Kafka mirror for analytics events. Empty brokers disable it.
	KafkaBrokers   []string
	AnalyticsTopic string

	CORSAllowOrigin string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tokenTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("TOKEN_TTL", "24h"))
	if err != nil || tokenTTL <= 0 {
		return nil, errors.New("invalid TOKEN_TTL")
	}

	upstreamTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENWEATHER_TIMEOUT", "20s"))
	if err != nil || upstreamTimeout <= 0 {
		return nil, errors.New("invalid OPENWEATHER_TIMEOUT")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath: sharedcfg.EnvOrDefault("DB_PATH", "cropwise.db"),

		SecretKey: sharedcfg.EnvOrDefault("CROPWISE_SECRET", "dev-secret-change-me"),
		TokenTTL:  tokenTTL,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherTimeout: upstreamTimeout,

		KafkaBrokers:   brokers,
		AnalyticsTopic: sharedcfg.EnvOrDefault("ANALYTICS_TOPIC", "cropwise-analytics-events"),

		CORSAllowOrigin: sharedcfg.EnvOrDefault("CORS_ALLOW_ORIGIN", "*"),
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.AnalyticsTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but ANALYTICS_TOPIC is empty")
	}

	return cfg, nil
}

// AnalyticsMirrorEnabled reports whether logged events should also be
// published to Kafka.
func (c *Config) AnalyticsMirrorEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
