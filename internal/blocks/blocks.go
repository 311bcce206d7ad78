// Package blocks is the static catalog of falling block kinds.
// Every kind has exactly one 4x4 occupancy mask; there is no rotation state.
package blocks

import "github.com/vovakirdan/blockfall/internal/core"

// Size is the edge length of every occupancy mask.
const Size = 4

// Kind identifies one of the closed set of block shapes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindS
	KindZ
	KindJ
	KindL
	KindT
)

// Count is the number of block kinds in the catalog.
const Count = 7

// Shape is a 4x4 occupancy mask indexed as [row][col].
type Shape [Size][Size]bool

// Every mask keeps its top row empty so a block anchored at row 0
// never overlaps the top wall of the field.
var shapes = [Count]Shape{
	KindI: mask(
		"....",
		"####",
		"....",
		"....",
	),
	KindO: mask(
		"....",
		".##.",
		".##.",
		"....",
	),
	KindS: mask(
		"....",
		".##.",
		"##..",
		"....",
	),
	KindZ: mask(
		"....",
		"##..",
		".##.",
		"....",
	),
	KindJ: mask(
		"....",
		"#...",
		"###.",
		"....",
	),
	KindL: mask(
		"....",
		"..#.",
		"###.",
		"....",
	),
	KindT: mask(
		"....",
		".#..",
		"###.",
		"....",
	),
}

func mask(rows ...string) Shape {
	var s Shape
	for y, row := range rows {
		for x, c := range row {
			s[y][x] = c == '#'
		}
	}
	return s
}

// ShapeOf returns the occupancy mask for kind.
// The lookup is total: every Kind in the enumeration has a shape.
func ShapeOf(k Kind) Shape {
	return shapes[k]
}

// All returns every kind in catalog order.
func All() []Kind {
	return []Kind{KindI, KindO, KindS, KindZ, KindJ, KindL, KindT}
}

// Valid reports whether k belongs to the enumeration.
func (k Kind) Valid() bool {
	return k >= 0 && k < Count
}

// String returns the conventional letter for the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindT:
		return "T"
	default:
		return "?"
	}
}

// Color returns the display color used by renderers for this kind.
func (k Kind) Color() core.Color {
	switch k {
	case KindI:
		return core.ColorBrightCyan
	case KindO:
		return core.ColorBrightYellow
	case KindS:
		return core.ColorBrightGreen
	case KindZ:
		return core.ColorBrightRed
	case KindJ:
		return core.ColorBrightBlue
	case KindL:
		return core.ColorOrange
	case KindT:
		return core.ColorBrightMagenta
	default:
		return core.ColorDefault
	}
}

// Cell is one occupied cell of a mask, relative to the anchor.
type Cell struct {
	Row, Col int
}

// Cells returns the occupied cells of the shape in row-major order.
func (s Shape) Cells() []Cell {
	cells := make([]Cell, 0, Size)
	for y := range Size {
		for x := range Size {
			if s[y][x] {
				cells = append(cells, Cell{Row: y, Col: x})
			}
		}
	}
	return cells
}
