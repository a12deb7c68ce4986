package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Expected default mongo URI, got %s", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "local" {
		t.Errorf("Expected default mongo database 'local', got %s", cfg.Mongo.Database)
	}
	if cfg.Upstream.WeatherTimeout != 10*time.Second {
		t.Errorf("Expected weather timeout 10s, got %v", cfg.Upstream.WeatherTimeout)
	}
	if cfg.Upstream.FireTimeout != 40*time.Second {
		t.Errorf("Expected fire timeout 40s, got %v", cfg.Upstream.FireTimeout)
	}
	if cfg.Upstream.OilTimeout != 10*time.Second {
		t.Errorf("Expected oil timeout 10s, got %v", cfg.Upstream.OilTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected default log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("FIRE_MAP_KEY", "test-map-key")
	t.Setenv("FIRE_TIMEOUT", "5s")
	t.Setenv("MONGO_URI", "mongodb://example:27017")
	t.Setenv("RATE_LIMIT_RPM", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.FireMapKey != "test-map-key" {
		t.Errorf("Expected fire map key from env, got %q", cfg.Upstream.FireMapKey)
	}
	if cfg.Upstream.FireTimeout != 5*time.Second {
		t.Errorf("Expected fire timeout 5s, got %v", cfg.Upstream.FireTimeout)
	}
	if cfg.Mongo.URI != "mongodb://example:27017" {
		t.Errorf("Expected mongo URI override, got %s", cfg.Mongo.URI)
	}
	if cfg.Redis.RequestsPerMinute != 30 {
		t.Errorf("Expected 30 rpm, got %d", cfg.Redis.RequestsPerMinute)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("WEATHER_TIMEOUT", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected fallback port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.WeatherTimeout != 10*time.Second {
		t.Errorf("Expected fallback weather timeout, got %v", cfg.Upstream.WeatherTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid max conns",
			mutate:  func(c *Config) { c.Database.MaxConns = 0 },
			wantErr: true,
		},
		{
			name:    "invalid concurrent fetches",
			mutate:  func(c *Config) { c.Upstream.MaxConcurrentFetches = 0 },
			wantErr: true,
		},
		{
			name:    "invalid rate limit",
			mutate:  func(c *Config) { c.Redis.RequestsPerMinute = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
