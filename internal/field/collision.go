package field

import "github.com/vovakirdan/blockfall/internal/blocks"

// Collides reports whether kind anchored at pos would leave the grid or
// overlap a settled cell. It is the single gate for every move and lock.
func Collides(f *Field, pos Position, kind blocks.Kind) bool {
	shape := blocks.ShapeOf(kind)
	for y := range blocks.Size {
		for x := range blocks.Size {
			if !shape[y][x] {
				continue
			}
			row, col := pos.Y+y, pos.X+x
			if !f.InBounds(row, col) {
				return true
			}
			if f.cells[row][col] {
				return true
			}
		}
	}
	return false
}
