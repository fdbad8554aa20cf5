package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"DISCOVR_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DISCOVR_DB_MAX_CONNS" default:"8"`

	// Admission window for parsed event dates, in whole years around "now".
	// Guards against parser artifacts like year 0002 or 9999.
	MaxPastYears   int `envconfig:"DISCOVR_MAX_PAST_YEARS" default:"5"`
	MaxFutureYears int `envconfig:"DISCOVR_MAX_FUTURE_YEARS" default:"5"`

	ExtractorConcurrency int `envconfig:"DISCOVR_EXTRACTOR_CONCURRENCY" default:"4"`

	HTTPHost string `envconfig:"DISCOVR_HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"DISCOVR_HTTP_PORT" default:"8090"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DISCOVR_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DISCOVR_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DISCOVR_DB_MIN_CONNS (%d) cannot exceed DISCOVR_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MaxPastYears < 0 {
		return fmt.Errorf("DISCOVR_MAX_PAST_YEARS must be >= 0")
	}
	if c.MaxFutureYears < 1 {
		return fmt.Errorf("DISCOVR_MAX_FUTURE_YEARS must be >= 1")
	}
	if c.ExtractorConcurrency < 1 {
		return fmt.Errorf("DISCOVR_EXTRACTOR_CONCURRENCY must be >= 1")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("DISCOVR_HTTP_PORT must be in 1..65535")
	}
	return nil
}
