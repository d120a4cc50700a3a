package vesselsync

import (
	"fmt"
	"time"

	"github.com/bluefin-labs/vesselsync/internal/domain"
)

// Config holds the configuration for a sync session.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// BaseURL is the dashboard backend base URL.
	BaseURL string

	// HTTPTimeout bounds each backend request.
	HTTPTimeout time.Duration

	// PollInterval is the vessel refresh cadence while running.
	PollInterval time.Duration

	// HistoryInterval is the audit log refresh cadence while running.
	// Defaults to PollInterval when unset.
	HistoryInterval time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://127.0.0.1:5000",
		HTTPTimeout:     15 * time.Second,
		PollInterval:    5 * time.Second,
		HistoryInterval: 15 * time.Second,
	}
}

// SetDefaults fills unset fields with defaults. Negative values are left
// alone for Validate to reject.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = def.HTTPTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = def.PollInterval
	}
	if c.HistoryInterval == 0 {
		c.HistoryInterval = c.PollInterval
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
