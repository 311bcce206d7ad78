package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/blocks"
	"github.com/vovakirdan/blockfall/internal/field"
)

// ErrStateCorrupted is returned once a transition has panicked part way.
// The engine refuses every later call because its invariants no longer hold.
var ErrStateCorrupted = errors.New("engine: game state corrupted")

// Action is a request to change the game state.
type Action int

const (
	ActionNone      Action = iota // Unrecognized input; ignored
	ActionMoveLeft                // Shift the block one column left
	ActionMoveRight               // Shift the block one column right
	ActionMoveDown                // Shift the block one row down
	ActionQuit                    // End the game
	ActionTick                    // Gravity step; issued by the scheduler only
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionMoveLeft:
		return "left"
	case ActionMoveRight:
		return "right"
	case ActionMoveDown:
		return "down"
	case ActionQuit:
		return "quit"
	case ActionTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Outcome describes what a transition did.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // Not applicable in the current phase
	OutcomeMoved                    // Position changed
	OutcomeRejected                 // Candidate collided; state unchanged
	OutcomeLocked                   // Block merged, rows cleared, next block spawned
	OutcomeBoardFull                // Block merged but the next one collides at spawn
	OutcomeQuit                     // Game ended by the player
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMoved:
		return "moved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeLocked:
		return "locked"
	case OutcomeBoardFull:
		return "board_full"
	case OutcomeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// committed reports whether the outcome changed the state.
func (o Outcome) committed() bool {
	return o != OutcomeIgnored && o != OutcomeRejected
}

// Event is reported to the Observer for every transition, in lock order.
type Event struct {
	Action  Action
	Outcome Outcome
	Kind    blocks.Kind // Kind that was active when the action ran
	Rows    int         // Rows cleared by a lock
}

// Observer receives every transition while the engine lock is held.
// Implementations must be fast and must not call back into the engine.
type Observer interface {
	Observe(ev Event)
}

// Renderer draws committed snapshots. It is called after the lock is
// released, so snapshots can arrive out of order; Seq tells which is newer.
type Renderer interface {
	Render(s Snapshot)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(s Snapshot)

// Render calls f.
func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

// Config holds the rules of a game.
type Config struct {
	Width       int           // Playable columns
	Height      int           // Playable rows
	ClearPolicy field.ClearPolicy
	Gravity     time.Duration // Interval between gravity ticks
}

// MinSize is the smallest playable width and height: one block mask.
const MinSize = blocks.Size

// DefaultConfig returns the classic 10x20 field with a 100ms gravity tick.
func DefaultConfig() Config {
	return Config{
		Width:       10,
		Height:      20,
		ClearPolicy: field.ClearReset,
		Gravity:     100 * time.Millisecond,
	}
}

// Option configures optional collaborators of an Engine.
type Option func(*Engine)

// WithRandomizer sets the source of new block kinds.
func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) { e.random = r }
}

// WithRenderer sets the renderer called after committed transitions.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithObserver sets the transition observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine guards one game State behind a mutex.
type Engine struct {
	cfg      Config
	random   Randomizer
	renderer Renderer
	observer Observer
	logger   *log.Logger

	mu    sync.Mutex
	state State
	seq   uint64
	fault error // set once a transition panicked
}

// New creates an engine with an empty field and a freshly spawned block.
// Sizes below MinSize are raised to MinSize.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.random == nil {
		e.random = NewRandomizer(0)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if cfg.Width < MinSize || cfg.Height < MinSize {
		e.logger.Warn("field too small, clamping", "width", cfg.Width, "height", cfg.Height, "min", MinSize)
		cfg.Width, cfg.Height = max(cfg.Width, MinSize), max(cfg.Height, MinSize)
		e.cfg = cfg
	}

	f := field.New(cfg.Width, cfg.Height)
	f.SetClearPolicy(cfg.ClearPolicy)
	e.state = State{Field: f}
	e.spawn(&e.state)
	return e
}

// Config returns the rules the engine was created with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot(e.seq)
}

// Err returns ErrStateCorrupted (wrapped) once the engine has faulted.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fault
}

// Apply runs one action as a single critical section and renders the
// result if the state changed.
func (e *Engine) Apply(a Action) (Outcome, error) {
	out, snap, err := e.transition(a)
	if err != nil {
		return out, err
	}
	if out.committed() && e.renderer != nil {
		e.renderer.Render(snap)
	}
	return out, nil
}

// Tick applies one gravity step.
func (e *Engine) Tick() (Outcome, error) {
	return e.Apply(ActionTick)
}

// Move attempts a player move.
func (e *Engine) Move(a Action) (Outcome, error) {
	return e.Apply(a)
}

// Quit ends the game.
func (e *Engine) Quit() error {
	_, err := e.Apply(ActionQuit)
	return err
}

// transition holds the lock for the whole read-check-write step. A panic
// inside poisons the engine instead of leaving a half-applied state in use.
func (e *Engine) transition(a Action) (out Outcome, snap Snapshot, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fault != nil {
		return OutcomeIgnored, Snapshot{}, e.fault
	}

	defer func() {
		if r := recover(); r != nil {
			e.fault = fmt.Errorf("%w: %s: %v", ErrStateCorrupted, a, r)
			e.logger.Error("transition panicked", "action", a, "panic", r)
			out, snap, err = OutcomeIgnored, Snapshot{}, e.fault
		}
	}()

	ev := Event{Action: a, Kind: e.state.Kind}
	ev.Outcome, ev.Rows = e.step(&e.state, a)
	if e.observer != nil {
		e.observer.Observe(ev)
	}
	if ev.Outcome.committed() {
		e.seq++
	}
	return ev.Outcome, e.state.snapshot(e.seq), nil
}

// step applies a to s. The caller holds the lock.
func (e *Engine) step(s *State, a Action) (Outcome, int) {
	if a == ActionQuit {
		if s.Phase == PhaseQuit {
			return OutcomeIgnored, 0
		}
		s.Phase = PhaseQuit
		return OutcomeQuit, 0
	}
	if s.Phase != PhaseFalling {
		return OutcomeIgnored, 0
	}

	var dx, dy int
	switch a {
	case ActionMoveLeft:
		dx = -1
	case ActionMoveRight:
		dx = 1
	case ActionMoveDown, ActionTick:
		dy = 1
	default:
		return OutcomeIgnored, 0
	}

	next := s.Pos.Translate(dx, dy)
	if !field.Collides(s.Field, next, s.Kind) {
		s.Pos = next
		if a == ActionTick {
			s.Stats.Ticks++
		} else {
			s.Stats.Moves++
		}
		return OutcomeMoved, 0
	}
	if a != ActionTick {
		return OutcomeRejected, 0
	}

	s.Stats.Ticks++
	return e.lock(s)
}

// lock merges the active block, clears full rows and spawns the next block.
func (e *Engine) lock(s *State) (Outcome, int) {
	s.Phase = PhaseLocking
	locked := s.Kind
	s.Field.Merge(s.Pos, s.Kind)
	rows := s.Field.ClearFullRows()
	s.Stats.Locked++
	s.Stats.RowsCleared += rows
	e.logger.Debug("block locked", "kind", locked, "x", s.Pos.X, "y", s.Pos.Y, "rows", rows)

	if !e.spawn(s) {
		e.logger.Info("board full", "locked", s.Stats.Locked, "rows", s.Stats.RowsCleared)
		return OutcomeBoardFull, rows
	}
	return OutcomeLocked, rows
}

// spawn places a new random block at the spawn anchor. It returns false and
// moves to PhaseBoardFull when the new block collides immediately.
func (e *Engine) spawn(s *State) bool {
	s.Kind = e.random.Next()
	s.Pos = s.Field.Spawn()
	if field.Collides(s.Field, s.Pos, s.Kind) {
		s.Phase = PhaseBoardFull
		s.BoardFull = true
		return false
	}
	s.Phase = PhaseFalling
	return true
}
