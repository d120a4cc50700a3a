package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.OutputPath != "vesselmap.html" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty base url falls back to default", func(c *Config) { c.BaseURL = "" }, false},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"negative poll interval", func(c *Config) { c.PollInterval = -time.Second }, true},
		{"zero history interval inherits poll", func(c *Config) { c.HistoryInterval = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_StripsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://example.com:5000/"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.BaseURL != "http://example.com:5000" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.BaseURL)
	}
}

func TestConfig_Validate_HistoryIntervalInheritsPoll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = 7 * time.Second
	cfg.HistoryInterval = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.HistoryInterval != 7*time.Second {
		t.Errorf("HistoryInterval = %v, want poll interval", cfg.HistoryInterval)
	}
}

func TestConfigSetter_RespectsChangedFlags(t *testing.T) {
	changed := map[string]bool{"base-url": true}
	s := newConfigSetter(changed)

	got := "from-flag"
	s.setString("base-url", "from-file", &got)
	if got != "from-flag" {
		t.Errorf("explicitly set flag overwritten: %q", got)
	}

	s.setString("dataset", "uk", &got)
	if got != "uk" {
		t.Errorf("unchanged flag not applied: %q", got)
	}
}

func TestConfigSetter_SetDuration(t *testing.T) {
	s := newConfigSetter(nil)

	var d time.Duration
	if err := s.setDuration("poll", "30s", &d); err != nil {
		t.Fatalf("setDuration() = %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("duration = %v, want 30s", d)
	}

	if err := s.setDuration("poll", "not-a-duration", &d); err == nil {
		t.Error("setDuration() = nil for invalid input, want error")
	}
}

func TestConfigSetter_SetBoolFromString(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"yes", true},
		{"0", false}, {"false", false}, {"no", false},
	}

	for _, tt := range tests {
		s := newConfigSetter(nil)
		got := !tt.want
		s.setBoolFromString("verbose", tt.value, &got)
		if got != tt.want {
			t.Errorf("setBoolFromString(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
