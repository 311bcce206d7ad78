// Package field models the playfield: a grid of settled cells surrounded by
// border walls, the anchor position of the active block, and the collision
// predicate that gates every move.
package field

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/blocks"
)

// Border is the wall thickness on every side of the playable area.
const Border = 1

// ClearPolicy selects how ClearFullRows treats the vacated top row.
type ClearPolicy int

const (
	// ClearReset empties the top playable row after each cleared row.
	ClearReset ClearPolicy = iota
	// ClearLegacy leaves the top playable row untouched, so its content
	// is duplicated one row down on every clear.
	ClearLegacy
)

// String returns the config name of the policy.
func (p ClearPolicy) String() string {
	switch p {
	case ClearReset:
		return "reset"
	case ClearLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// ParseClearPolicy converts a config name into a ClearPolicy.
// An empty name selects ClearReset.
func ParseClearPolicy(name string) (ClearPolicy, error) {
	switch name {
	case "", "reset":
		return ClearReset, nil
	case "legacy":
		return ClearLegacy, nil
	default:
		return ClearReset, fmt.Errorf("field: unknown row clear policy %q", name)
	}
}

// Position is the anchor of the active block: the top-left corner of its
// 4x4 mask in grid coordinates.
type Position struct {
	X, Y int
}

// Translate returns the position shifted by (dx, dy).
func (p Position) Translate(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Field is the settled-cell grid. Row 0, the last row, column 0 and the
// last column are walls and always read as occupied.
type Field struct {
	width  int // playable columns
	height int // playable rows
	policy ClearPolicy
	cells  [][]bool
}

// New creates an empty field with the given playable size. Negative sizes
// are treated as zero.
func New(width, height int) *Field {
	width, height = max(width, 0), max(height, 0)
	f := &Field{
		width:  width,
		height: height,
	}
	f.cells = make([][]bool, height+2*Border)
	for y := range f.cells {
		f.cells[y] = make([]bool, width+2*Border)
	}
	f.buildWalls()
	return f
}

func (f *Field) buildWalls() {
	last := len(f.cells) - 1
	for y := range f.cells {
		row := f.cells[y]
		row[0] = true
		row[len(row)-1] = true
		if y == 0 || y == last {
			for x := range row {
				row[x] = true
			}
		}
	}
}

// SetClearPolicy changes how ClearFullRows refills the top row.
func (f *Field) SetClearPolicy(p ClearPolicy) {
	f.policy = p
}

// ClearPolicy returns the active row clear policy.
func (f *Field) ClearPolicy() ClearPolicy {
	return f.policy
}

// Width returns the number of playable columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of playable rows.
func (f *Field) Height() int { return f.height }

// Rows returns the grid height including walls.
func (f *Field) Rows() int { return len(f.cells) }

// Cols returns the grid width including walls.
func (f *Field) Cols() int { return f.width + 2*Border }

// InBounds reports whether (row, col) lies inside the grid.
func (f *Field) InBounds(row, col int) bool {
	return row >= 0 && row < f.Rows() && col >= 0 && col < f.Cols()
}

// Occupied reports whether the cell at (row, col) is settled.
// Cells outside the grid behave as walls.
func (f *Field) Occupied(row, col int) bool {
	if !f.InBounds(row, col) {
		return true
	}
	return f.cells[row][col]
}

// IsWall reports whether (row, col) is part of the border.
func (f *Field) IsWall(row, col int) bool {
	return row == 0 || row == f.Rows()-1 || col == 0 || col == f.Cols()-1
}

// Spawn returns the top-center anchor used for every new block.
func (f *Field) Spawn() Position {
	return Position{X: (f.Cols() - blocks.Size) / 2, Y: 0}
}

// Merge settles every mask cell of kind at pos into the field.
// The caller must have checked pos with Collides. Cells that would fall
// outside the grid are skipped.
func (f *Field) Merge(pos Position, kind blocks.Kind) {
	for _, c := range blocks.ShapeOf(kind).Cells() {
		row, col := pos.Y+c.Row, pos.X+c.Col
		if !f.InBounds(row, col) {
			continue
		}
		f.cells[row][col] = true
	}
}

// rowFull reports whether every playable column of row is settled.
func (f *Field) rowFull(row int) bool {
	for x := Border; x <= f.width; x++ {
		if !f.cells[row][x] {
			return false
		}
	}
	return true
}

// ClearFullRows removes full playable rows, scanning top to bottom. Every
// row above a cleared row shifts down by one. Returns the number of rows
// removed.
func (f *Field) ClearFullRows() int {
	cleared := 0
	for y := Border; y <= f.height; y++ {
		if !f.rowFull(y) {
			continue
		}
		// Rows above y were already scanned and are not full, so after the
		// shift row y holds a row that has been checked.
		for y2 := y; y2 > Border; y2-- {
			copy(f.cells[y2], f.cells[y2-1])
		}
		if f.policy == ClearReset {
			top := f.cells[Border]
			for x := Border; x <= f.width; x++ {
				top[x] = false
			}
		}
		cleared++
	}
	return cleared
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{
		width:  f.width,
		height: f.height,
		policy: f.policy,
		cells:  make([][]bool, len(f.cells)),
	}
	for y := range f.cells {
		c.cells[y] = append([]bool(nil), f.cells[y]...)
	}
	return c
}

// Equal reports whether two fields have the same size and cells.
func (f *Field) Equal(o *Field) bool {
	if f.width != o.width || f.height != o.height {
		return false
	}
	for y := range f.cells {
		for x := range f.cells[y] {
			if f.cells[y][x] != o.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// SettledCount returns the number of settled playable cells.
func (f *Field) SettledCount() int {
	n := 0
	for y := Border; y <= f.height; y++ {
		for x := Border; x <= f.width; x++ {
			if f.cells[y][x] {
				n++
			}
		}
	}
	return n
}

// String renders the grid with '#' for settled cells and '.' for empty ones.
func (f *Field) String() string {
	buf := make([]byte, 0, f.Rows()*(f.Cols()+1))
	for y := range f.cells {
		for _, c := range f.cells[y] {
			if c {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
