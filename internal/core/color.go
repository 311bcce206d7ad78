package core

// Color is the foreground color of a screen cell. The renderer maps each
// value to a terminal color; blocks use the bright range, the board frame
// uses gray.
type Color uint8

const (
	ColorDefault Color = iota
	ColorGray          // Walls and empty cells
	ColorWhite         // Settled cells
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorOrange
)
