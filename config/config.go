package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Upstream UpstreamConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// MongoConfig configures the document store holding ingested climate records.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// UpstreamConfig configures the third-party climate APIs.
type UpstreamConfig struct {
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// The FIRMS endpoint is slow; its timeout is deliberately longer
	// than the others.
	FireBaseURL string
	FireMapKey  string
	FireTimeout time.Duration

	OilBaseURL string
	OilTimeout time.Duration

	MaxConcurrentFetches int
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

type RedisConfig struct {
	URL               string
	Password          string
	DB                int
	RequestsPerMinute int
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "local"),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Upstream: UpstreamConfig{
			WeatherBaseURL:       getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com"),
			WeatherTimeout:       getEnvDuration("WEATHER_TIMEOUT", 10*time.Second),
			FireBaseURL:          getEnv("FIRE_BASE_URL", "https://firms.modaps.eosdis.nasa.gov"),
			FireMapKey:           getEnv("FIRE_MAP_KEY", ""),
			FireTimeout:          getEnvDuration("FIRE_TIMEOUT", 40*time.Second),
			OilBaseURL:           getEnv("OIL_BASE_URL", "https://api.cerulean.skytruth.org"),
			OilTimeout:           getEnvDuration("OIL_TIMEOUT", 10*time.Second),
			MaxConcurrentFetches: getEnvInt("UPSTREAM_MAX_CONCURRENT_FETCHES", 8),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Redis: RedisConfig{
			URL:               getEnv("REDIS_URL", ""),
			Password:          getEnv("REDIS_PASSWORD", ""),
			DB:                getEnvInt("REDIS_DB", 0),
			RequestsPerMinute: getEnvInt("RATE_LIMIT_RPM", 120),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}
	if c.Upstream.MaxConcurrentFetches < 1 {
		return fmt.Errorf("upstream max concurrent fetches must be at least 1")
	}
	if c.Redis.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per minute")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
