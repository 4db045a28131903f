package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config keeps runtime settings for the API server.
type Config struct {
	HTTPAddr                 string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseDriver           string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL              string        `env:"DATABASE_URL" envDefault:"task_manager.db"`
	JWTSecret                string        `env:"JWT_SECRET"`
	JWTIssuer                string        `env:"JWT_ISSUER" envDefault:"task-manager"`
	AccessTokenTTL           time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"5m"`
	RefreshTokenTTL          time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
	AnonDailyLimit           int           `env:"ANON_DAILY_LIMIT" envDefault:"100"`
	UserDailyLimit           int           `env:"USER_DAILY_LIMIT" envDefault:"1000"`
	CORSOrigins              []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	EnforceCategoryOwnership bool          `env:"ENFORCE_CATEGORY_OWNERSHIP" envDefault:"false"`
	CleanupInterval          time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	ThrottlePurgeAt          string        `env:"THROTTLE_PURGE_AT" envDefault:"00:05"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", cfg.DatabaseDriver)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return cfg, fmt.Errorf("token lifetimes must be positive")
	}
	if cfg.AnonDailyLimit < 0 || cfg.UserDailyLimit < 0 {
		return cfg, fmt.Errorf("daily limits must not be negative")
	}
	if cfg.CleanupInterval < 0 {
		return cfg, fmt.Errorf("CLEANUP_INTERVAL must not be negative")
	}

	return cfg, nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
