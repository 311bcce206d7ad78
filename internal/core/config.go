// Package core provides the small shared types used by the engine and the
// terminal platform: runtime configuration, colors and a cell screen buffer.
// It has no dependency on Bubble Tea so game logic stays testable.
package core

// RuntimeConfig contains per-session settings resolved by the platform layer.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for block selection (0 = time based)

	FieldW int // Playable columns
	FieldH int // Playable rows
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0,
		FieldW:  10,
		FieldH:  20,
	}
}

// BoardSize returns the terminal cells needed to draw a field of the
// configured size: two characters per grid column plus a HUD line.
func (c RuntimeConfig) BoardSize() (w, h int) {
	return (c.FieldW + 2) * 2, c.FieldH + 2 + 2
}

// FitsScreen reports whether the board fits the configured screen.
func (c RuntimeConfig) FitsScreen() bool {
	w, h := c.BoardSize()
	return w <= c.ScreenW && h <= c.ScreenH
}
