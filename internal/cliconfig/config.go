// Package cliconfig holds CLI configuration for vesselsync: defaults,
// validation, TOML file loading, environment overrides, and the config file
// watcher. Precedence is flags > environment > file > defaults.
package cliconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the default dashboard backend endpoint.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Config holds CLI configuration for vesselsync.
type Config struct {
	// BaseURL is the dashboard backend base URL.
	BaseURL string

	// Dataset is the default dataset key (e.g., "uk", "croatia", "svg").
	Dataset string

	// OutputPath is where rendered map pages are written.
	OutputPath string

	HTTPTimeout     time.Duration
	PollInterval    time.Duration
	HistoryInterval time.Duration

	// Verbose enables debug-level logging.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		OutputPath:      "vesselmap.html",
		HTTPTimeout:     15 * time.Second,
		PollInterval:    5 * time.Second,
		HistoryInterval: 15 * time.Second,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	// Ensure no trailing slash
	if len(c.BaseURL) > 0 && c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.HistoryInterval <= 0 {
		c.HistoryInterval = c.PollInterval
	}
	if c.OutputPath == "" {
		c.OutputPath = "vesselmap.html"
	}
	return nil
}

// Logger returns a console zerolog logger for CLI output.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// ApplyEnvConfig applies configuration from environment variables
// (VESSELSYNC_*). It respects flags that have been explicitly set
// (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", os.Getenv("VESSELSYNC_BASE_URL"), &cfg.BaseURL)
	s.setString("dataset", os.Getenv("VESSELSYNC_DATASET"), &cfg.Dataset)
	s.setString("out", os.Getenv("VESSELSYNC_OUTPUT_PATH"), &cfg.OutputPath)

	if err := s.setDuration("timeout", os.Getenv("VESSELSYNC_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("VESSELSYNC_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("history-interval", os.Getenv("VESSELSYNC_HISTORY_INTERVAL"), &cfg.HistoryInterval); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("VESSELSYNC_VERBOSE"), &cfg.Verbose)
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool applies an optional bool if the flag was not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses and sets a bool from string if valid and flag not changed.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	switch value {
	case "1", "t", "true", "TRUE", "True", "yes", "y":
		*dst = true
	case "0", "f", "false", "FALSE", "False", "no", "n":
		*dst = false
	}
}
