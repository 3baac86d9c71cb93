// Package config loads runtime settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/rapport/internal/store"
)

// Environment variables that override file values.
const (
	EnvDataDir   = "RAPPORT_DATA_DIR"
	EnvLogLevel  = "RAPPORT_LOG_LEVEL"
	EnvLogFormat = "RAPPORT_LOG_FORMAT"
	EnvHTTPAddr  = "RAPPORT_HTTP_ADDR"
	EnvMinHits   = "RAPPORT_MIN_HITS"
)

// Config is the process configuration.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	HTTPAddr  string `yaml:"http_addr"`
	// MinHits is how many tagged turns a construct needs to count as covered.
	MinHits int `yaml:"min_hits"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:   store.DefaultConfig().DataDir,
		LogLevel:  "info",
		LogFormat: "json",
		HTTPAddr:  ":8080",
		MinHits:   1,
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", filepath.Base(path), err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTPAddr = v
	}
	if v, ok := lookup(EnvMinHits); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinHits, err)
		}
		c.MinHits = n
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format %q: must be json or console", c.LogFormat))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.MinHits < 1 {
		errs = append(errs, fmt.Errorf("min_hits %d: must be at least 1", c.MinHits))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Store returns the store configuration.
func (c Config) Store() store.Config {
	return store.Config{DataDir: c.DataDir}
}
