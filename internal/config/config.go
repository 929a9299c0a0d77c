package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines flightline service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"FLIGHTLINE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"FLIGHTLINE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"FLIGHTLINE_REDIS_ADDR"`
		Password string `yaml:"password" env:"FLIGHTLINE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"FLIGHTLINE_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"FLIGHTLINE_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"FLIGHTLINE_JWT_SECRET"`
	} `yaml:"auth"`
	School struct {
		Timezone       string  `yaml:"timezone" env:"FLIGHTLINE_TIMEZONE"`
		DefaultTaxRate float64 `yaml:"defaultTaxRate" env:"FLIGHTLINE_DEFAULT_TAX_RATE"`
	} `yaml:"school"`
}

// Load reads configuration via the shared loader and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 86400
	cfg.School.Timezone = "UTC"
	cfg.School.DefaultTaxRate = 0.15

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if _, err := time.LoadLocation(cfg.School.Timezone); err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", cfg.School.Timezone, err)
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// DraftTTL returns the check-in draft cache ttl as duration.
func (c *Config) DraftTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// Location resolves the configured school timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.School.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
