// Package config loads service configuration from an optional YAML file,
// a .env file, and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`
	// DatabaseURL selects the Postgres backend when non-empty.
	DatabaseURL string `yaml:"database_url"`
	// DevSeed loads a small demo snapshot at startup.
	DevSeed bool `yaml:"dev_seed"`
}

// Load reads KHATA_CONFIG (YAML, optional), then a .env file if present,
// then environment variables. Env always wins over the file.
func Load() (Config, error) {
	// Try to load .env from the current directory (ignore if not found)
	_ = godotenv.Load()

	cfg := Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "json",
	}
	if path := strings.TrimSpace(os.Getenv("KHATA_CONFIG")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED"))); v != "" {
		cfg.DevSeed = v == "1" || v == "true" || v == "yes"
	}
	return cfg, nil
}
