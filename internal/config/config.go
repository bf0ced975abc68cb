// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// minProductionSecretLen is the shortest JWT secret accepted in production.
const minProductionSecretLen = 32

// Configuration errors.
var (
	ErrWeakSecret = errors.New("JWT_SECRET must be at least 32 bytes in production")
	ErrInvalidTTL = errors.New("TOKEN_TTL and REFRESH_TTL must be positive")
	ErrRefreshTTL = errors.New("REFRESH_TTL must not be shorter than TOKEN_TTL")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8000"`

	// Database (PostgreSQL)
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns     int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Session registry (Redis)
	RedisURL       string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"travelog:"`

	// Token signing and lifetimes
	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"60m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"336h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "http://localhost:5173,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	return SplitList(c.CORSAllowedOrigins)
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrInvalidTTL
	}
	if c.RefreshTTL < c.TokenTTL {
		return ErrRefreshTTL
	}
	if c.IsProduction() && len(c.JWTSecret) < minProductionSecretLen {
		return ErrWeakSecret
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Outside production a .env file in the working directory is read first;
// variables already set in the environment win.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads .env unless APP_ENV is production. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	_ = godotenv.Load(files...)
}

// SplitList splits a comma-separated value, trimming blanks.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
