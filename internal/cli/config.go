package cli

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/travelog/travelog/internal/config"
)

// Config is the CLI configuration, read from the environment.
type Config struct {
	APIURL    string `env:"TRAVELOG_API_URL" envDefault:"http://localhost:8000"`
	SessionDB string `env:"TRAVELOG_SESSION_DB" envDefault:"travelog-session.db"`
}

// LoadConfig reads Config, loading .env first outside production.
func LoadConfig() (*Config, error) {
	config.LoadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
