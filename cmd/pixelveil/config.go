package main

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the environment-driven defaults. Flags override these
// per invocation.
type Config struct {
	Workers   int    `env:"PIXELVEIL_WORKERS" envDefault:"0"`
	LogLevel  string `env:"PIXELVEIL_LOG_LEVEL" envDefault:"info"`
	OutputDir string `env:"PIXELVEIL_OUTPUT_DIR" envDefault:"."`
}

var cfg Config

func readConfig() (*Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) logLevel() zerolog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
