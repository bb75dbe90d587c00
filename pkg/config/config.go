// Package config loads service configuration from the environment.
//
// Values are parsed with github.com/caarlos0/env; a .env file in the working
// directory is loaded first when present. Each section lives in its own file.
package config

import (
	"errors"
	"fmt"
	"os"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName    string `env:"APP_NAME" envDefault:"AI Article Writer"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`

	Server    ServerConfig
	Database  DatabaseConfig `envPrefix:"DB_"`
	Redis     RedisConfig    `envPrefix:"REDIS_"`
	AI        AIConfig
	Pipeline  PipelineConfig  `envPrefix:"PIPELINE_"`
	Storage   StorageConfig   `envPrefix:"STORAGE_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Notify    NotifyConfig    `envPrefix:"NOTIFY_"`
	Admin     AdminConfig     `envPrefix:"ADMIN_"`
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return &cfg, nil
}

// Sanitize replaces out-of-range values with defaults.
func (c *Config) Sanitize() {
	c.Server.Sanitize()
	c.Database.Sanitize()
	c.AI.Sanitize()
	c.Pipeline.Sanitize()
	c.Storage.Sanitize()
	c.RateLimit.Sanitize()
}
