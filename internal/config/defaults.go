package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Width:  10,
			Height: 20,
		},
		Gravity: GravityConfig{
			IntervalMS: 100,
		},
		RowClear: "reset",
		LogLevel: "info",
		Keys: KeysConfig{
			Left:  []string{"left", "h", "a"},
			Right: []string{"right", "l", "d"},
			Down:  []string{"down", "j", "s"},
			Quit:  []string{"q", "ctrl+c"},
		},
		Server: ServerConfig{
			Address:            ":23234",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
