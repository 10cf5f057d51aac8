// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session goes to the OS keychain.
// Every setting can be overridden from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"alumnet/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string `json:"log_level" env:"ALUMNET_LOG_LEVEL"`
	// BackendURL and AnonKey point the CLI at another deployment, e.g. a
	// local development stack. Empty means the built-in endpoint.
	BackendURL string `json:"backend_url,omitempty" env:"ALUMNET_BACKEND_URL"`
	AnonKey    string `json:"anon_key,omitempty" env:"ALUMNET_ANON_KEY"`
	// DatabaseURL switches profile reads and writes to a direct PostgreSQL
	// connection.
	DatabaseURL      string   `json:"database_url,omitempty" env:"ALUMNET_DATABASE_URL"`
	ProvisionTimeout Duration `json:"provision_timeout" env:"ALUMNET_PROVISION_TIMEOUT"`
	StartPath        string   `json:"start_path" env:"ALUMNET_START_PATH"`
}

// Duration is a time.Duration written as "10s" in JSON and the environment.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", b)
	}
	*d = Duration(v)
	return nil
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		LogLevel:         "info",
		ProvisionTimeout: Duration(10 * time.Second),
		StartPath:        "/",
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables override file values.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}
	return loadFrom(p)
}

// LoadFile reads the config file without applying environment overrides.
// Use it when the result is written back with Save.
func LoadFile() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}
	return readFile(p)
}

func readFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	return c, nil
}

func loadFrom(p string) (Config, error) {
	c, err := readFile(p)
	if err != nil {
		return c, err
	}
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"log_level", "backend_url", "anon_key", "database_url", "provision_timeout", "start_path"}

// Set assigns one setting by its file key. An empty value resets it to the
// default.
func (c *Config) Set(key, value string) error {
	def := Defaults()
	switch key {
	case "log_level":
		switch value {
		case "", "trace", "debug", "info", "warn", "error", "off":
		default:
			return fmt.Errorf("invalid log level %q", value)
		}
		c.LogLevel = value
		if value == "" {
			c.LogLevel = def.LogLevel
		}
	case "backend_url":
		c.BackendURL = value
	case "anon_key":
		c.AnonKey = value
	case "database_url":
		c.DatabaseURL = value
	case "provision_timeout":
		if value == "" {
			c.ProvisionTimeout = def.ProvisionTimeout
			return nil
		}
		return c.ProvisionTimeout.UnmarshalText([]byte(value))
	case "start_path":
		c.StartPath = value
		if value == "" {
			c.StartPath = def.StartPath
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Get returns one setting by its file key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "log_level":
		return c.LogLevel, true
	case "backend_url":
		return c.BackendURL, true
	case "anon_key":
		return c.AnonKey, true
	case "database_url":
		return c.DatabaseURL, true
	case "provision_timeout":
		return time.Duration(c.ProvisionTimeout).String(), true
	case "start_path":
		return c.StartPath, true
	}
	return "", false
}
