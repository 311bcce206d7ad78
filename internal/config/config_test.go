package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/field"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, expected %+v", cfg, Default())
	}
}

func TestLoadCustomPathOverridesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("field:\n  width: 12\ngravity:\n  interval_ms: 250\nrow_clear: legacy\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Field.Width != 12 {
		t.Errorf("Width = %d, expected 12", cfg.Field.Width)
	}
	if cfg.Field.Height != 20 {
		t.Errorf("Height = %d, expected default 20", cfg.Field.Height)
	}
	if !reflect.DeepEqual(cfg.Keys, Default().Keys) {
		t.Errorf("Keys = %+v, expected defaults", cfg.Keys)
	}

	ec := cfg.Engine()
	if ec.Gravity != 250*time.Millisecond {
		t.Errorf("Gravity = %v, expected 250ms", ec.Gravity)
	}
	if ec.ClearPolicy != field.ClearLegacy {
		t.Errorf("ClearPolicy = %v, expected legacy", ec.ClearPolicy)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".blockfall")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("field:\n  height: 16\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Field.Height != 16 {
		t.Errorf("Height = %d, expected 16 from user config", cfg.Field.Height)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"narrow", func(c *Config) { c.Field.Width = 3 }, false},
		{"short", func(c *Config) { c.Field.Height = 2 }, false},
		{"no gravity", func(c *Config) { c.Gravity.IntervalMS = 0 }, false},
		{"bad policy", func(c *Config) { c.RowClear = "diagonal" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"legacy", func(c *Config) { c.RowClear = "legacy" }, true},
		{"unbound quit", func(c *Config) { c.Keys.Quit = nil }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestMarshalRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Field.Width = 14

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Load(Marshal(cfg)) = %+v, expected %+v", got, cfg)
	}
}
