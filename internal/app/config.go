package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks errors caused by bad user input rather than by the
// environment.
var ErrInvalidInput = errors.New("invalid input")

// Config holds the invocation settings for an App instance.
type Config struct {
	ConfigPath string // hcl file, optional
	Project    string // alias or directory, empty picks the first project

	LogFormat string
	LogLevel  string
}

// NewConfig validates and normalizes cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%w: log-format must be 'text' or 'json'", ErrInvalidInput)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%w: log-level must be 'debug', 'info', 'warn', or 'error'", ErrInvalidInput)
	}

	return &cfg, nil
}
