// Package config handles YAML configuration parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sweephand/internal/clockface"
	"sweephand/internal/stats"
)

// Config is the root configuration structure.
type Config struct {
	TimeZone   string            `yaml:"timeZone"`
	Theme      string            `yaml:"theme,omitempty"`
	Provider   ProviderConfig    `yaml:"provider,omitempty"`
	Sync       SyncConfig        `yaml:"sync,omitempty"`
	Clock      ClockConfig       `yaml:"clock,omitempty"`
	Thresholds *stats.Thresholds `yaml:"thresholds,omitempty"`
}

// ProviderConfig selects and tunes the time source. When Command is set it
// takes precedence over the HTTP URL.
type ProviderConfig struct {
	URL     string        `yaml:"url"`
	Command []string      `yaml:"command,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// SyncConfig controls the synchronization cadence.
type SyncConfig struct {
	Interval       time.Duration   `yaml:"interval"`
	RetryIntervals []time.Duration `yaml:"retryIntervals"`
	ManualMinGap   time.Duration   `yaml:"manualMinGap"`
}

// ClockConfig controls hand simulation and rendering.
type ClockConfig struct {
	Speed   float64       `yaml:"speed"`
	Speeds  []float64     `yaml:"speeds,omitempty"`
	Refresh time.Duration `yaml:"refresh"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TimeZone: "Etc/UTC",
		Provider: ProviderConfig{
			URL:     "https://timeapi.io/api/Time/current/zone?timeZone=${zone}",
			Timeout: 5 * time.Second,
		},
		Sync: SyncConfig{
			Interval:       15 * time.Minute,
			RetryIntervals: []time.Duration{30 * time.Second, time.Minute, 5 * time.Minute},
			ManualMinGap:   3 * time.Second,
		},
		Clock: ClockConfig{
			Speed:   1,
			Speeds:  clockface.DefaultMultipliers,
			Refresh: 100 * time.Millisecond,
		},
	}
}

// Load reads and parses a YAML configuration file, filling unset fields from
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.fillDefaults()

	return cfg, nil
}

// fillDefaults restores required values that the YAML file zeroed or omitted.
func (c *Config) fillDefaults() {
	d := Default()
	if c.TimeZone == "" {
		c.TimeZone = d.TimeZone
	}
	if c.Provider.URL == "" && len(c.Provider.Command) == 0 {
		c.Provider.URL = d.Provider.URL
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = d.Provider.Timeout
	}
	if c.Sync.Interval <= 0 {
		c.Sync.Interval = d.Sync.Interval
	}
	if c.Sync.RetryIntervals == nil {
		c.Sync.RetryIntervals = d.Sync.RetryIntervals
	}
	if c.Sync.ManualMinGap < 0 {
		c.Sync.ManualMinGap = d.Sync.ManualMinGap
	}
	if c.Clock.Speed == 0 {
		c.Clock.Speed = d.Clock.Speed
	}
	if len(c.Clock.Speeds) == 0 {
		c.Clock.Speeds = d.Clock.Speeds
	}
	if c.Clock.Refresh <= 0 {
		c.Clock.Refresh = d.Clock.Refresh
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	if !clockface.ValidMultiplier(c.Clock.Speeds, c.Clock.Speed) {
		return fmt.Errorf("speed %v is not in the configured speed set %v", c.Clock.Speed, c.Clock.Speeds)
	}
	for _, s := range c.Clock.Speeds {
		if s <= 0 {
			return fmt.Errorf("speed multipliers must be positive, got %v", s)
		}
	}
	return nil
}

// Location resolves the configured time zone. Call Validate first.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
