// Package engine owns the authoritative game state and the two control
// loops that advance it. Gravity ticks and player input both go through
// one mutex-guarded transition, validated by field.Collides, and every
// committed transition hands an immutable Snapshot to the renderer.
package engine

import (
	"github.com/vovakirdan/blockfall/internal/blocks"
	"github.com/vovakirdan/blockfall/internal/field"
)

// Phase is the lifecycle state of a game.
type Phase int

const (
	PhaseFalling   Phase = iota // Active block is live; gravity and input move it
	PhaseLocking                // Block is being merged; only observable inside a transition
	PhaseBoardFull              // A new block could not spawn; only quit is accepted
	PhaseQuit                   // Terminal
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseFalling:
		return "falling"
	case PhaseLocking:
		return "locking"
	case PhaseBoardFull:
		return "board_full"
	case PhaseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Stats counts committed transitions.
type Stats struct {
	Ticks       int // Gravity ticks that moved or locked a block
	Moves       int // Player moves that were committed
	Locked      int // Blocks merged into the field
	RowsCleared int
}

// State is the single source of truth shared by the gravity and input loops.
type State struct {
	Field *field.Field
	Pos   field.Position
	Kind  blocks.Kind
	Phase Phase
	Stats Stats

	// BoardFull stays set after the game ends on a failed spawn, so the end
	// reason survives the later quit.
	BoardFull bool
}

// Snapshot is a deep copy of State taken at the end of a transition.
// Renderers may keep it without holding the engine lock.
type Snapshot struct {
	Seq       uint64 // Increases with every committed transition
	Field     *field.Field
	Pos       field.Position
	Kind      blocks.Kind
	Phase     Phase
	Stats     Stats
	BoardFull bool
}

func (s *State) snapshot(seq uint64) Snapshot {
	return Snapshot{
		Seq:       seq,
		Field:     s.Field.Clone(),
		Pos:       s.Pos,
		Kind:      s.Kind,
		Phase:     s.Phase,
		Stats:     s.Stats,
		BoardFull: s.BoardFull,
	}
}

// Active reports whether the live block covers grid cell (row, col).
// A block that failed to spawn is not drawn.
func (s Snapshot) Active(row, col int) bool {
	if s.Phase != PhaseFalling {
		return false
	}
	dy, dx := row-s.Pos.Y, col-s.Pos.X
	if dy < 0 || dy >= blocks.Size || dx < 0 || dx >= blocks.Size {
		return false
	}
	return blocks.ShapeOf(s.Kind)[dy][dx]
}

// SameState reports whether two snapshots describe identical game state,
// ignoring the sequence number.
func (s Snapshot) SameState(o Snapshot) bool {
	if s.Field == nil || o.Field == nil {
		return s.Field == o.Field
	}
	return s.Field.Equal(o.Field) &&
		s.Pos == o.Pos &&
		s.Kind == o.Kind &&
		s.Phase == o.Phase &&
		s.Stats == o.Stats &&
		s.BoardFull == o.BoardFull
}
