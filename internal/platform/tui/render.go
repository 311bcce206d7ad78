package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// Board glyphs: every grid cell is two characters wide.
const (
	glyphFilled = "[]"
	glyphEmpty  = " ."
)

// colorStyles maps core.Color to lipgloss styles (ANSI 256 codes).
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawBoard draws snap onto s with the top-left grid cell at (0, 0),
// followed by a two-line HUD. Walls are gray, settled cells white and
// the live block takes its kind's color.
func DrawBoard(s *core.Screen, snap engine.Snapshot) {
	f := snap.Field
	if f == nil {
		return
	}

	for row := range f.Rows() {
		for col := range f.Cols() {
			x := col * 2
			switch {
			case snap.Active(row, col):
				s.DrawColorText(x, row, glyphFilled, snap.Kind.Color())
			case f.IsWall(row, col):
				s.DrawColorText(x, row, glyphFilled, core.ColorGray)
			case f.Occupied(row, col):
				s.DrawColorText(x, row, glyphFilled, core.ColorWhite)
			default:
				s.DrawColorText(x, row, glyphEmpty, core.ColorGray)
			}
		}
	}

	hud := f.Rows()
	s.DrawText(0, hud, fmt.Sprintf("Rows %d  Blocks %d", snap.Stats.RowsCleared, snap.Stats.Locked))

	status := fmt.Sprintf("Falling %s", snap.Kind)
	color := core.ColorDefault
	switch snap.Phase {
	case engine.PhaseBoardFull:
		status, color = "Game over", core.ColorBrightRed
	case engine.PhaseQuit:
		status = "Quit"
	}
	s.DrawColorText(0, hud+1, status, color)

	if snap.Phase == engine.PhaseBoardFull {
		banner := " BOARD FULL "
		x := (f.Cols()*2 - len(banner)) / 2
		s.DrawColorText(x, f.Rows()/2, banner, core.ColorBrightRed)
	}
}
