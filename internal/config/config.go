// Package config provides YAML-based configuration loading for blockfall.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/field"
)

// Config is the complete blockfall configuration.
type Config struct {
	Field    FieldConfig   `yaml:"field"`
	Gravity  GravityConfig `yaml:"gravity"`
	RowClear string        `yaml:"row_clear"` // "reset" or "legacy"
	LogLevel string        `yaml:"log_level"` // debug, info, warn, error
	Keys     KeysConfig    `yaml:"keys"`
	Server   ServerConfig  `yaml:"server"`
}

// FieldConfig defines the playable area.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GravityConfig defines the gravity tick.
type GravityConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// KeysConfig lists the terminal keys bound to each player action.
// Names follow Bubble Tea's key strings ("left", "ctrl+c", "h").
type KeysConfig struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Down  []string `yaml:"down"`
	Quit  []string `yaml:"quit"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address            string `yaml:"address"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
	MetricsAddress     string `yaml:"metrics_address"` // empty disables /metrics
}

// Interval returns the gravity interval as a duration.
func (g GravityConfig) Interval() time.Duration {
	return time.Duration(g.IntervalMS) * time.Millisecond
}

// IdleTimeout returns the SSH idle timeout as a duration.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Validate checks that the configuration describes a playable game.
func (c Config) Validate() error {
	if c.Field.Width < engine.MinSize {
		return fmt.Errorf("config: field width %d is below %d", c.Field.Width, engine.MinSize)
	}
	if c.Field.Height < engine.MinSize {
		return fmt.Errorf("config: field height %d is below %d", c.Field.Height, engine.MinSize)
	}
	if c.Gravity.IntervalMS <= 0 {
		return fmt.Errorf("config: gravity interval must be positive, got %d", c.Gravity.IntervalMS)
	}
	if _, err := field.ParseClearPolicy(c.RowClear); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for name, keys := range map[string][]string{
		"left": c.Keys.Left, "right": c.Keys.Right, "down": c.Keys.Down, "quit": c.Keys.Quit,
	} {
		if len(keys) == 0 {
			return fmt.Errorf("config: no keys bound to %s", name)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: %w", err)
	}
	return lvl, nil
}

// Engine converts the configuration into engine rules.
// Call Validate first; an unknown row clear policy falls back to reset.
func (c Config) Engine() engine.Config {
	policy, _ := field.ParseClearPolicy(c.RowClear)
	return engine.Config{
		Width:       c.Field.Width,
		Height:      c.Field.Height,
		ClearPolicy: policy,
		Gravity:     c.Gravity.Interval(),
	}
}
